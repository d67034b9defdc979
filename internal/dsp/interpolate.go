package dsp

// Interpolate applies every phase of the filter bank to one block of
// samples and writes the squared magnitude into mag.
//
// re and im must have length B+FilterLen (B real samples plus the
// guard region read ahead by the FIR). Each mag[i] must have length at
// least B+PreambleSamples; only indices [0,B) are written here; the
// trailing PreambleSamples entries are left untouched here; they carry
// whatever fill value the caller seeded at startup and are read only
// by the correlator's own lookahead.
//
// The inner loop is structured for contiguous reads from re/im and from
// h[i] with a scalar accumulation so a vectorizing compiler can unroll
// it; callers should not reorder the loop nesting.
func (fb *FilterBank) Interpolate(re, im []float32, mag [NumFilters][]float32) {
	b := len(re) - FilterLen
	for i := 0; i < NumFilters; i++ {
		h := &fb.Coeffs[i]
		out := mag[i]
		for j := 0; j < b; j++ {
			var accRe, accIm float32
			rej := re[j : j+FilterLen]
			imj := im[j : j+FilterLen]
			for k := 0; k < FilterLen; k++ {
				accRe += rej[k] * h[k]
				accIm += imj[k] * h[k]
			}
			out[j] = accRe*accRe + accIm*accIm
		}
	}
}
