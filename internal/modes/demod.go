package modes

// DecoderConfig carries the two operator-tunable error-correction mode
// flags. They are deliberately not process-wide constants so a single
// binary can run several decoders (e.g. under test) with different
// settings.
type DecoderConfig struct {
	// FixXoredCRCs enables single-bit repair for message types whose
	// CRC is XORed with the aircraft address. Computationally more
	// expensive than the plain-CRC case since every candidate bit flip
	// must be checked against the ICAO directory.
	FixXoredCRCs bool
	// Fix2BitErrors enables double-bit repair: one DF-field bit plus
	// one body bit, or two body bits outside the DF field (plain CRC
	// only). Quite expensive; only ever attempted after single-bit
	// repair has already failed.
	Fix2BitErrors bool
}

// Result describes one successfully decoded (or repaired) message.
//
// Bits aliases the Demodulator's internal scratch buffer and is only
// valid until the next call to Decode on the same Demodulator; callers
// that need to retain it (for emission) must copy it out first.
type Result struct {
	Bits          []uint8 // hard bits, length M
	M             int     // 112 or 56
	ICAO          uint32  // resolved ICAO address
	ICAOInMessage bool    // true for DF11/17/18
	Corrected     bool
	FixedBits     []int // bit indices flipped during repair, for tracing
}

// Demodulator extracts PPM soft/hard bits from an interpolation buffer
// and runs CRC verification and error correction. Its scratch buffers
// are thread-private: a Demodulator must not be shared across
// goroutines without external synchronisation.
type Demodulator struct {
	soft   [MaxBits]float32
	hard   [MaxBits]uint8
	Config DecoderConfig
}

// NewDemodulator builds a Demodulator with the given correction policy.
func NewDemodulator(cfg DecoderConfig) *Demodulator {
	return &Demodulator{Config: cfg}
}

// Decode attempts to demodulate and validate one message starting
// PreambleSamples after the preamble's detected sample offset: mag
// must have at least 2*MaxBits valid entries from start onward (the
// caller, typically the peak selector's straddle check, is responsible
// for this).
//
// On success it returns the decoded Result, the number of samples
// consumed (2*ShortBits or 2*MaxBits, not including the preamble), and
// true. On CRC failure after all repair steps it returns the zero
// Result, 0, and false.
func (d *Demodulator) Decode(mag []float32, start int, dir Lookup) (Result, int, bool) {
	for b := 0; b < MaxBits; b++ {
		a := mag[start+2*b]
		c := mag[start+2*b+1]
		soft := 0.5 + 0.5*(a-c)/(a+c)
		d.soft[b] = soft
		if soft > 0.5 {
			d.hard[b] = 1
		} else {
			d.hard[b] = 0
		}
	}

	m := ShortBits
	if d.hard[0] == 1 {
		m = MaxBits
	}
	hard := d.hard[:m]

	ok, remainder, icaoInMessage := Check(hard, m, dir)
	if ok {
		return d.buildResult(hard, remainder, icaoInMessage, false, nil), m * 2, true
	}

	cr := correct(hard, m, remainder, icaoInMessage, d.Config, dir)
	if !cr.ok {
		return Result{}, 0, false
	}
	return d.buildResult(hard, cr.remainder, cr.icaoInMessage, true, cr.bits), m * 2, true
}

func (d *Demodulator) buildResult(hard []uint8, remainder uint32, icaoInMessage, corrected bool, fixedBits []int) Result {
	var addr uint32
	if icaoInMessage {
		addr = icaoFromBits(hard)
	} else {
		addr = remainder
	}
	return Result{
		Bits:          hard,
		M:             len(hard),
		ICAO:          addr,
		ICAOInMessage: icaoInMessage,
		Corrected:     corrected,
		FixedBits:     fixedBits,
	}
}

// icaoFromBits extracts the 24-bit ICAO address carried in bits [8,32)
// of a plain-CRC message, big-endian.
func icaoFromBits(hard []uint8) uint32 {
	var addr uint32
	for i := 8; i < 32; i++ {
		addr = (addr << 1) | uint32(hard[i])
	}
	return addr
}
