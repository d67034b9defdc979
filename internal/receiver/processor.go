package receiver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/regentag/go1090/internal/dsp"
	"github.com/regentag/go1090/internal/icao"
	"github.com/regentag/go1090/internal/modes"
)

// BlockSize is B, the number of complex samples processed at a time.
const BlockSize = 262144

// straddleGuard is P + 2*M_max: a candidate within this many samples of
// the end of the block cannot be safely offered to the demodulator.
const straddleGuard = dsp.PreambleSamples + 2*modes.MaxBits

// Emit is invoked once per accepted decode, in strict chronological
// order, with the absolute sample timestamp (N*BlockSize + sample
// offset of the detected preamble), the phase percentage 100*i/F, and
// the decoded result. Bits inside res alias the Demodulator's scratch
// buffer and must be copied out by Emit if retained.
type Emit func(sampleIndex uint64, phasePct int, res modes.Result)

// Processor owns all mutable pipeline state for one stream: the block
// buffers, the ICAO directory, and the block counter. None of it is
// shared outside the goroutine that calls Run.
type Processor struct {
	Filters   *dsp.FilterBank
	Demod     *modes.Demodulator
	Directory *icao.Directory
	Threshold float32
	Source    Source
	Log       *logrus.Logger
	OnDecode  Emit

	// Stats, when non-nil, receives per-candidate and per-decode
	// counts and is reported on a 30s ticker for as long as Run is
	// active. Left nil, the pipeline carries no observability
	// overhead beyond the Log calls already on the decode path.
	Stats *Stats

	re, im  []float32
	mag     [dsp.NumFilters][]float32
	score   [dsp.NumFilters][]float32
	blockNo uint64
}

// NewProcessor allocates the fixed-size pipeline buffers once and
// seeds their guard regions with a benign non-zero value, so that
// reading past the end of real block data (natural overrun in the
// correlator's lookahead) can never synthesise a spurious detection.
func NewProcessor(filters *dsp.FilterBank, demod *modes.Demodulator, dir *icao.Directory, threshold float32, src Source, log *logrus.Logger, onDecode Emit) *Processor {
	p := &Processor{
		Filters:   filters,
		Demod:     demod,
		Directory: dir,
		Threshold: threshold,
		Source:    src,
		Log:       log,
		OnDecode:  onDecode,
	}

	p.re = make([]float32, BlockSize+dsp.FilterLen)
	p.im = make([]float32, BlockSize+dsp.FilterLen)
	for i := range p.re {
		p.re[i] = 1.0
		p.im[i] = 1.0
	}

	for i := 0; i < dsp.NumFilters; i++ {
		p.mag[i] = make([]float32, BlockSize+dsp.PreambleSamples)
		for j := range p.mag[i] {
			p.mag[i][j] = 1.0
		}
		p.score[i] = make([]float32, BlockSize)
	}

	return p
}

// Run drives the pipeline: pull a block, interpolate, correlate, scan
// for candidates and demodulate, repeat, until the source reports EOF
// or cancellation. It returns nil on a clean stop, or a wrapped error
// if the source failed.
func (p *Processor) Run() error {
	if p.Stats != nil {
		done := make(chan struct{})
		defer close(done)
		go runReporter(p.Stats, p.Log, done)
	}

	for {
		res, err := p.Source.NextBlock(p.re, p.im)
		if err != nil {
			return fmt.Errorf("receiver: source error: %w", err)
		}
		if res == BlockEOF || res == BlockCancelled {
			return nil
		}

		p.processBlock()
		p.blockNo++
	}
}

func (p *Processor) processBlock() {
	p.Filters.Interpolate(p.re, p.im, p.mag)
	dsp.Correlate(p.mag, p.score)

	dsp.Scan(p.score, p.Threshold, BlockSize, straddleGuard, func(c dsp.Candidate) int {
		return p.tryDecode(c)
	})
}

func (p *Processor) tryDecode(c dsp.Candidate) int {
	if p.Stats != nil {
		p.Stats.noteCandidate()
	}

	start := c.Sample + dsp.PreambleSamples
	res, consumed, ok := p.Demod.Decode(p.mag[c.Phase], start, p.Directory)
	if !ok {
		return 0
	}
	if p.Stats != nil {
		p.Stats.noteDecode(res.ICAO, res.Corrected)
	}

	if res.ICAOInMessage {
		if icao.Invalid(res.ICAO) {
			p.Log.Warnf("Received valid message containing invalid ICAO number: 0x%06x", res.ICAO)
			return consumed
		}
		if err := p.Directory.Add(res.ICAO); err != nil {
			p.Log.WithError(err).Warn("failed to add ICAO to directory")
			return consumed
		}
		p.Log.Debugf("Added %06x", res.ICAO)
	}

	if res.Corrected {
		p.Log.Debugf("CRC CORRECTED %v", res.FixedBits)
	}

	if p.OnDecode != nil {
		sampleIndex := p.blockNo*BlockSize + uint64(c.Sample)
		phasePct := 100 * c.Phase / dsp.NumFilters
		p.OnDecode(sampleIndex, phasePct, res)
	}

	return consumed
}
