package modes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// encodePPM lays hard bits out as PPM mark/space magnitude pairs
// starting at offset start in mag, the same layout Demodulator.Decode
// reads.
func encodePPM(hard []uint8, start int) []float32 {
	mag := make([]float32, start+2*len(hard))
	for b, v := range hard {
		if v != 0 {
			mag[start+2*b] = 1.0
			mag[start+2*b+1] = 0.0
		} else {
			mag[start+2*b] = 0.0
			mag[start+2*b+1] = 1.0
		}
	}
	return mag
}

func TestDemodulator_DecodesCleanPlainCRCMessage(t *testing.T) {
	body := make([]uint8, MaxBits-DFBits-24)
	hard := buildMessage(17, MaxBits, body, 0)

	const start = 16
	mag := encodePPM(hard, start)
	// pad so reads past the message body (short-message probe) stay in
	// bounds.
	mag = append(mag, make([]float32, 2*MaxBits)...)

	d := NewDemodulator(DecoderConfig{})
	res, consumed, ok := d.Decode(mag, start, fakeDir{})

	require.True(t, ok)
	require.Equal(t, MaxBits*2, consumed)
	require.Equal(t, MaxBits, res.M)
	require.True(t, res.ICAOInMessage)
	require.False(t, res.Corrected)
}

func TestDemodulator_DecodesCleanXoredCRCMessage(t *testing.T) {
	const addr = uint32(0x123456)
	body := make([]uint8, ShortBits-DFBits-24)
	hard := buildMessage(4, ShortBits, body, addr)

	const start = 16
	mag := encodePPM(hard, start)
	mag = append(mag, make([]float32, 2*MaxBits)...)

	d := NewDemodulator(DecoderConfig{})
	dir := fakeDir{addr: true}
	res, consumed, ok := d.Decode(mag, start, dir)

	require.True(t, ok)
	require.Equal(t, ShortBits*2, consumed)
	require.Equal(t, addr, res.ICAO)
	require.False(t, res.ICAOInMessage)
}

func TestDemodulator_RejectsUnrepairableGarbage(t *testing.T) {
	mag := make([]float32, 16+2*MaxBits*2)
	for i := range mag {
		mag[i] = 0.5 // no mark/space contrast at all
	}

	d := NewDemodulator(defaultConfig())
	_, consumed, ok := d.Decode(mag, 16, fakeDir{})

	require.False(t, ok)
	require.Equal(t, 0, consumed)
}

func TestDemodulator_RepairsCorruptedMessage(t *testing.T) {
	body := make([]uint8, MaxBits-DFBits-24)
	hard := buildMessage(17, MaxBits, body, 0)
	hard[DFBits+10] ^= 1

	const start = 16
	mag := encodePPM(hard, start)
	mag = append(mag, make([]float32, 2*MaxBits)...)

	d := NewDemodulator(defaultConfig())
	res, _, ok := d.Decode(mag, start, fakeDir{})

	require.True(t, ok)
	require.True(t, res.Corrected)
	require.Equal(t, []int{DFBits + 10}, res.FixedBits)
}
