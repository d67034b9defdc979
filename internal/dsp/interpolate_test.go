package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpolate_DCInputProducesFlatMagnitude(t *testing.T) {
	fb := NewFilterBank()
	const b = 64
	re := make([]float32, b+FilterLen)
	im := make([]float32, b+FilterLen)
	for i := range re {
		re[i] = 10.0
		im[i] = 0.0
	}

	var mag [NumFilters][]float32
	for i := range mag {
		mag[i] = make([]float32, b+PreambleSamples)
	}

	fb.Interpolate(re, im, mag)

	// A constant input should produce a (near) constant squared
	// magnitude out of every phase, scaled by that phase's DC gain.
	for i := 0; i < NumFilters; i++ {
		first := mag[i][0]
		for j := 1; j < b; j++ {
			require.InDelta(t, float64(first), float64(mag[i][j]), 1e-1, "phase %d sample %d", i, j)
		}
	}
}

func TestInterpolate_LeavesGuardRegionUntouched(t *testing.T) {
	fb := NewFilterBank()
	const b = 32
	re := make([]float32, b+FilterLen)
	im := make([]float32, b+FilterLen)

	var mag [NumFilters][]float32
	for i := range mag {
		mag[i] = make([]float32, b+PreambleSamples)
		for j := range mag[i] {
			mag[i][j] = 1.0
		}
	}

	fb.Interpolate(re, im, mag)

	for i := 0; i < NumFilters; i++ {
		for j := b; j < b+PreambleSamples; j++ {
			require.Equal(t, float32(1.0), mag[i][j], "phase %d guard sample %d was modified", i, j)
		}
	}
}
