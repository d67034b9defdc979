// Package receiver wires the DSP, demodulation, and ICAO directory
// packages into the producer/consumer pipeline: a block source feeds
// fixed-size sample blocks to a single processing loop that
// interpolates, correlates, scans for preambles, demodulates, and
// emits decoded messages in strict chronological order.
package receiver

// BlockResult is the outcome of one Source.NextBlock call.
type BlockResult int

const (
	// BlockOK means re/im were filled with a fresh block of B samples.
	BlockOK BlockResult = iota
	// BlockEOF means the source is exhausted (replay file reached end,
	// or a short/partial final read); no data was written.
	BlockEOF
	// BlockCancelled means the source was asked to stop (process-wide
	// exiting flag observed); no data was written.
	BlockCancelled
)

// Source is the single capability both the live hardware path and the
// capture-file replay path must satisfy: hand the processor its next
// block of samples, synchronously from the processor's point of view.
// A live source blocks internally until its asynchronous hardware
// callback delivers a block (bridging push to pull); a file source
// simply reads the next chunk.
//
// re and im are supplied by the caller with length B+FilterLen so
// NextBlock can fill re[:B], im[:B] in place without allocating on the
// hot path; indices [B, B+FilterLen) are guard padding the caller
// seeded once at startup and NextBlock must not touch.
type Source interface {
	NextBlock(re, im []float32) (BlockResult, error)
	Close() error
}
