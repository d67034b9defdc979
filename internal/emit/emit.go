// Package emit formats accepted decodes into the wire record format
// and writes them to an injected writer, independent of any logging
// framework: these lines are a contract with downstream tooling, not a
// diagnostic.
package emit

import (
	"fmt"
	"io"

	"github.com/regentag/go1090/internal/modes"
)

// Emitter prints decoded records in the fixed stdout format:
//
//	SSSSSSSSSSSSSS.PP: 0x<IIIIII>, 0x<HEX...>;
//
// SSSSSSSSSSSSSS is the 14-digit zero-padded sample index, PP is the
// 2-digit phase percentage, IIIIII is the 6-hex ICAO address, and
// HEX... is the message bits excluding the trailing 24-bit CRC field,
// packed big-endian nibble by nibble.
type Emitter struct {
	w io.Writer
}

// New builds an Emitter writing to w (typically os.Stdout).
func New(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes one decoded record. It is safe to use as a
// receiver.Emit callback.
func (e *Emitter) Emit(sampleIndex uint64, phasePct int, res modes.Result) {
	fmt.Fprintf(e.w, "%014d.%02d: 0x%06x, 0x%s;\n",
		sampleIndex, phasePct, res.ICAO, packHex(res.Bits[:res.M-24]))
}

// packHex packs hard bits four at a time, most-significant bit first,
// into hex nibbles.
func packHex(bits []uint8) string {
	out := make([]byte, 0, len(bits)/4)
	for i := 0; i+4 <= len(bits); i += 4 {
		nibble := bits[i]<<3 | bits[i+1]<<2 | bits[i+2]<<1 | bits[i+3]
		out = append(out, hexDigit(nibble))
	}
	return string(out)
}

func hexDigit(v uint8) byte {
	const digits = "0123456789abcdef"
	return digits[v&0xf]
}
