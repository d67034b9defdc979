// Package dsp implements the polyphase fractional-delay interpolator and
// Mode S preamble correlator that sit between the raw I/Q sample stream
// and the demodulator.
package dsp

import "math"

const (
	// NumFilters is F, the number of fractional-delay sub-sample phases.
	NumFilters = 4
	// FilterLen is L, the length of each phase's FIR kernel. Must be a
	// power of two so the sample block's guard region aligns cleanly.
	FilterLen = 32
	// PreambleSamples is P, the width of the preamble correlator and the
	// guard padding appended to the interpolation buffer.
	PreambleSamples = 16
)

// FilterBank holds the immutable F x L matrix of fractional-delay FIR
// coefficients, built once at startup and never mutated afterward.
type FilterBank struct {
	Coeffs [NumFilters][FilterLen]float32
}

// NewFilterBank builds the polyphase filter bank: each phase i is a
// shifted sinc windowed by a Hann function, spaced 1/NumFilters of a
// sample period apart. The sinc of phase i peaks at tap
// FilterLen/2-1+i/NumFilters. The Hann window is evaluated one tap late
// (n = j+1), so for phase 0 its leading zero falls at index -1 rather
// than at tap 0, and its last tap (j = FilterLen-1) is zero.
func NewFilterBank() *FilterBank {
	fb := &FilterBank{}
	for i := 0; i < NumFilters; i++ {
		frac := float64(i) / float64(NumFilters)
		for j := 0; j < FilterLen; j++ {
			// Window: n = j+1, N-1 = FilterLen, so the first sample (j=0)
			// is pushed to the "-1" position and the last is zero.
			window := 0.5 * (1.0 - math.Cos(2*math.Pi*(float64(j+1)-frac)/float64(FilterLen)))

			x := math.Pi * (float64(j) - (float64(FilterLen)/2 - 1) - frac)
			var sinc float64
			if x == 0.0 {
				sinc = 1.0
			} else {
				sinc = math.Sin(x) / x
			}

			fb.Coeffs[i][j] = float32(sinc * window)
		}
	}
	return fb
}
