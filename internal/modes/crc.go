// Package modes implements Mode S PPM demodulation, CRC verification,
// and single/double-bit error correction.
package modes

const (
	// MaxBits is M_max, the length of a long Mode S message in bits.
	MaxBits = 112
	// ShortBits is M_short, the length of a short Mode S message in bits.
	ShortBits = 56
	// DFBits is the width of the downlink format field at the start of
	// every message.
	DFBits = 5
)

// crcTable holds the 112 24-bit constants of the Mode S generator
// polynomial, one per message bit. The values are reproduced exactly
// from the reference receiver and must not be re-derived: flipping bit
// b changes the CRC remainder by exactly crcTable[b+off] (XOR), which
// is both how the checksum is computed and how single-bit correction
// works in reverse.
var crcTable = [MaxBits]uint32{
	0x3935ea, 0x1c9af5, 0xf1b77e, 0x78dbbf, 0xc397db, 0x9e31e9, 0xb0e2f0, 0x587178,
	0x2c38bc, 0x161c5e, 0x0b0e2f, 0xfa7d13, 0x82c48d, 0xbe9842, 0x5f4c21, 0xd05c14,
	0x682e0a, 0x341705, 0xe5f186, 0x72f8c3, 0xc68665, 0x9cb936, 0x4e5c9b, 0xd8d449,
	0x939020, 0x49c810, 0x24e408, 0x127204, 0x093902, 0x049c81, 0xfdb444, 0x7eda22,
	0x3f6d11, 0xe04c8c, 0x702646, 0x381323, 0xe3f395, 0x8e03ce, 0x4701e7, 0xdc7af7,
	0x91c77f, 0xb719bb, 0xa476d9, 0xadc168, 0x56e0b4, 0x2b705a, 0x15b82d, 0xf52612,
	0x7a9309, 0xc2b380, 0x6159c0, 0x30ace0, 0x185670, 0x0c2b38, 0x06159c, 0x030ace,
	0x018567, 0xff38b7, 0x80665f, 0xbfc92b, 0xa01e91, 0xaff54c, 0x57faa6, 0x2bfd53,
	0xea04ad, 0x8af852, 0x457c29, 0xdd4410, 0x6ea208, 0x375104, 0x1ba882, 0x0dd441,
	0xf91024, 0x7c8812, 0x3e4409, 0xe0d800, 0x706c00, 0x383600, 0x1c1b00, 0x0e0d80,
	0x0706c0, 0x038360, 0x01c1b0, 0x00e0d8, 0x00706c, 0x003836, 0x001c1b, 0xfff409,
	0x800000, 0x400000, 0x200000, 0x100000, 0x080000, 0x040000, 0x020000, 0x010000,
	0x008000, 0x004000, 0x002000, 0x001000, 0x000800, 0x000400, 0x000200, 0x000100,
	0x000080, 0x000040, 0x000020, 0x000010, 0x000008, 0x000004, 0x000002, 0x000001,
}

// crcOffset returns the offset into crcTable for a message of m bits:
// long messages use the whole table, short messages use its last
// ShortBits entries.
func crcOffset(m int) int {
	if m == MaxBits {
		return 0
	}
	return MaxBits - ShortBits
}

// checksum computes the raw CRC remainder over hard[0:m]: the XOR of
// crcTable[b+off] for every bit b that is set.
func checksum(hard []uint8, m int) uint32 {
	off := crcOffset(m)
	var crc uint32
	for b := 0; b < m; b++ {
		if hard[b] != 0 {
			crc ^= crcTable[b+off]
		}
	}
	return crc
}

// downlinkFormat reads the 5-bit DF field from the start of a message.
func downlinkFormat(hard []uint8) int {
	df := 0
	for i := 0; i < DFBits; i++ {
		df = (df << 1) | int(hard[i]&1)
	}
	return df
}

// hasPlainCRC reports whether DF carries the ICAO address in the body
// and therefore has an un-XORed CRC: DF11 (01011), DF17 (10001), DF18
// (10010).
func hasPlainCRC(df int) bool {
	switch df {
	case 11, 17, 18:
		return true
	default:
		return false
	}
}

// Lookup is the read side of the ICAO directory the CRC checker needs
// to validate XORed-CRC message types.
type Lookup interface {
	Lookup(addr uint32) bool
}

// Check validates the CRC of a message stored as one hard bit per
// element of hard[0:m]. It returns, jointly:
//
//   - ok: whether the message is to be accepted.
//   - remainder: when icaoInMessage is true and ok, 0; when
//     icaoInMessage is true and !ok, the raw CRC syndrome; when
//     icaoInMessage is false, the candidate ICAO address recovered by
//     XORing the CRC field with the message (valid only when ok).
//   - icaoInMessage: true for DF11/17/18, whose CRC is plain and whose
//     ICAO address is carried directly in the message body.
//
// For non-plain-CRC formats, ok is determined by looking the candidate
// address up in dir: the CRC field of those formats is XORed with the
// transmitting aircraft's address, so a casual listener can only
// recognise validity against a list of recently-seen addresses.
func Check(hard []uint8, m int, dir Lookup) (ok bool, remainder uint32, icaoInMessage bool) {
	remainder = checksum(hard, m)
	df := downlinkFormat(hard)

	if hasPlainCRC(df) {
		return remainder == 0, remainder, true
	}

	return dir.Lookup(remainder), remainder, false
}
