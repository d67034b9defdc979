package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewFilterBank_NoNaNOrInf(t *testing.T) {
	fb := NewFilterBank()
	for i := 0; i < NumFilters; i++ {
		for j := 0; j < FilterLen; j++ {
			v := fb.Coeffs[i][j]
			require.False(t, math.IsNaN(float64(v)), "phase %d tap %d is NaN", i, j)
			require.False(t, math.IsInf(float64(v), 0), "phase %d tap %d is Inf", i, j)
		}
	}
}

func TestNewFilterBank_PhaseZeroIsUnshiftedSinc(t *testing.T) {
	fb := NewFilterBank()
	// x=0 only when j == FilterLen/2 - 1 for phase 0 (frac=0), which is
	// where the unshifted sinc peaks at 1.0 before windowing.
	peak := FilterLen/2 - 1
	assert.InDelta(t, 1.0, fb.Coeffs[0][peak], 1e-5)
}

// Property: every phase's kernel carries finite, bounded energy, a
// sanity bound that would catch a blown-up window or sinc computation.
// The bank is built from the compiled-in NumFilters and FilterLen, so
// every iteration checks the same F/L combination.
func TestFilterBank_BoundedEnergy(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fb := NewFilterBank()
		for i := 0; i < NumFilters; i++ {
			var energy float64
			for j := 0; j < FilterLen; j++ {
				v := float64(fb.Coeffs[i][j])
				energy += v * v
			}
			if energy <= 0 || energy > float64(FilterLen) {
				rt.Fatalf("phase %d energy out of bounds: %v", i, energy)
			}
		}
	})
}
