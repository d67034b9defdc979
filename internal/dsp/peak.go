package dsp

// Candidate is a single preamble detection offered to the demodulator:
// the phase and sample index of the argmax of one contiguous
// above-threshold run in the detection buffer.
type Candidate struct {
	Phase  int
	Sample int
	Score  float32
}

// Scan walks score in strict chronological order: increasing sample j,
// and at each j every phase i. It maintains a running maximum over any
// j where at least one phase exceeds threshold; on the first j where no
// phase exceeds threshold, the current maximum (if any) collapses into
// one Candidate for that run, and the maximum resets. This guarantees at
// most one candidate per contiguous above-threshold run, located at the
// run's argmax.
//
// straddleGuard is P + 2*M_max (preamble width plus the worst-case long
// message): a candidate whose sample+straddleGuard would read past the
// end of the block is dropped without being offered to try, and a run
// still active when the scan reaches the end of the block is dropped
// silently (frames straddling block boundaries are lost; the next block
// does not recover them).
//
// try is called with the chosen candidate and must return the number of
// samples successfully consumed by a decode (0 on failure/drop). Scan
// then resumes scanning from sample+consumed, so a message that decodes
// cannot be re-detected by an overlapping run.
func Scan(score [NumFilters][]float32, threshold float32, b, straddleGuard int, try func(Candidate) int) {
	haveMax := false
	var best Candidate

	j := 0
	for j < b {
		anyAbove := false
		for i := 0; i < NumFilters; i++ {
			s := score[i][j]
			if s > threshold {
				anyAbove = true
				if !haveMax || s > best.Score {
					haveMax = true
					best = Candidate{Phase: i, Sample: j, Score: s}
				}
			}
		}

		if !anyAbove && haveMax {
			consumed := 0
			if best.Sample+straddleGuard <= b {
				consumed = try(best)
			}
			haveMax = false
			if consumed > 0 {
				j = best.Sample + consumed
				continue
			}
		}
		j++
	}
}
