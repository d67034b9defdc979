package modes

// fix1Bit looks for a single bit, at or after DFBits, whose flip would
// make the CRC remainder vanish (plain-CRC messages) or resolve to a
// known ICAO address (XORed-CRC messages, only attempted when
// fixXored is set). On success it flips the bit in hard and returns
// its index, together with the ICAO address recovered for the XORed
// case (unused and zero for the plain case, where the caller re-reads
// the address straight out of the message body once the CRC is zero).
//
// Bits inside the downlink format field are never touched here: a
// wrong DF value changes how the CRC itself is computed, so DF repair
// is handled one level up as its own step.
func fix1Bit(hard []uint8, m int, remainder uint32, icaoInMessage, fixXored bool, dir Lookup) (bit int, recoveredAddr uint32, ok bool) {
	off := crcOffset(m)

	if icaoInMessage {
		for b := DFBits; b < m; b++ {
			if remainder == crcTable[b+off] {
				hard[b] ^= 1
				return b, 0, true
			}
		}
		return -1, 0, false
	}

	if !fixXored {
		return -1, 0, false
	}

	for b := DFBits; b < m; b++ {
		candidate := remainder ^ crcTable[b+off]
		if dir.Lookup(candidate) {
			hard[b] ^= 1
			return b, candidate, true
		}
	}
	return -1, 0, false
}

// correctionResult describes how a CRC failure was resolved.
type correctionResult struct {
	ok            bool
	bits          []int // 1 or 2 flipped bit indices, in the order applied
	remainder     uint32
	icaoInMessage bool
}

// correct runs the three ordered repair steps from a failed CRC check,
// mutating hard in place. remainder/icaoInMessage are the outcome of
// the initial Check call that failed.
func correct(hard []uint8, m int, remainder uint32, icaoInMessage bool, cfg DecoderConfig, dir Lookup) correctionResult {
	icaoInMessageOrig := icaoInMessage

	// Step 1: single flip outside the DF field.
	if b, addr, ok := fix1Bit(hard, m, remainder, icaoInMessage, cfg.FixXoredCRCs, dir); ok {
		return correctionResult{ok: true, bits: []int{b}, remainder: addr, icaoInMessage: icaoInMessage}
	}

	// Step 2: flip one DF bit; recomputing the CRC may reclassify
	// icaoInMessage since DF selects plain vs. XORed CRC.
	for b := 0; b < DFBits; b++ {
		hard[b] ^= 1
		ok2, rem2, icaoInMsg2 := Check(hard, m, dir)
		if ok2 {
			return correctionResult{ok: true, bits: []int{b}, remainder: rem2, icaoInMessage: icaoInMsg2}
		}
		if cfg.Fix2BitErrors && icaoInMsg2 {
			if b2, _, ok3 := fix1Bit(hard, m, rem2, icaoInMsg2, false, dir); ok3 {
				return correctionResult{ok: true, bits: []int{b, b2}, remainder: 0, icaoInMessage: icaoInMsg2}
			}
		}
		hard[b] ^= 1 // restore
	}

	// Step 3: two flips outside the DF field, plain CRC only.
	if cfg.Fix2BitErrors && icaoInMessageOrig {
		for i := DFBits; i < m; i++ {
			hard[i] ^= 1
			_, rem3, icaoInMsg3 := Check(hard, m, dir)
			if b2, _, ok3 := fix1Bit(hard, m, rem3, icaoInMsg3, false, dir); ok3 {
				return correctionResult{ok: true, bits: []int{i, b2}, remainder: 0, icaoInMessage: icaoInMsg3}
			}
			hard[i] ^= 1 // restore
		}
	}

	return correctionResult{ok: false}
}
