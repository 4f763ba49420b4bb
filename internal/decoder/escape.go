package decoder

// Escape-trigger byte values (§4.3).
const (
	byteVEX3 = 0xC4
	byteVEX2 = 0xC5
	byteEVEXOrMVEX = 0x62
	byteXOP  = 0x8F
)

func isEscapeTrigger(b byte) bool {
	switch b {
	case byteVEX3, byteVEX2, byteEVEXOrMVEX, byteXOP:
		return true
	}
	return false
}

// shouldTriggerEscape applies the two gate conditions of §4.3: in 64-bit
// mode an escape trigger byte is unconditionally an escape; in 16/32-bit
// mode it is only an escape if the following byte's top two bits are both
// set (the pattern that would otherwise be a ModR/M mod=11 byte).
func shouldTriggerEscape(cur *Cursor, mode MachineMode) (bool, Status) {
	if mode == Mode64 {
		return true, StatusSuccess
	}
	next, status := cur.PeekAhead(1)
	if status != StatusSuccess {
		// Not enough bytes to disambiguate; treat as a regular opcode and
		// let the normal end-of-input handling fire later.
		return false, StatusSuccess
	}
	return next&0xC0 == 0xC0, StatusSuccess
}

func invert(bit byte) bool { return bit == 0 }

// decodeEscape reads and materializes whichever escape prefix `trigger`
// begins, filling the uniform effective-bit cache (§4.3). The trigger byte
// itself must already have been consumed by the caller.
func decodeEscape(cur *Cursor, rec *InstructionRecord, trigger byte) (RawPrefixes, Status) {
	switch trigger {
	case byteVEX2:
		return decodeVEX2(cur, rec)
	case byteVEX3:
		return decodeVEX3(cur, rec)
	case byteEVEXOrMVEX:
		return decodeEVEXOrMVEX(cur, rec)
	case byteXOP:
		return decodeXOP(cur, rec)
	}
	panic("decodeEscape: not an escape trigger byte")
}

func decodeVEX2(cur *Cursor, rec *InstructionRecord) (RawPrefixes, Status) {
	b, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	var ps RawPrefixes
	ps.R = invert(b >> 7 & 1)
	ps.X = true
	ps.B = true
	vvvv := ^(b >> 3) & 0xF
	ps.VVVV = int(vvvv)
	l := b >> 2 & 1
	ps.LL = int(l)
	ps.PP = int(b & 0x3)
	ps.MMMMM = 1 // implied 0F map
	rec.Encoding = EncodingVEX
	rec.OpcodeMap = mapFromMMMMM(ps.MMMMM)
	return ps, StatusSuccess
}

func decodeVEX3(cur *Cursor, rec *InstructionRecord) (RawPrefixes, Status) {
	b2, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	b3, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	var ps RawPrefixes
	ps.R = invert(b2 >> 7 & 1)
	ps.X = invert(b2 >> 6 & 1)
	ps.B = invert(b2 >> 5 & 1)
	ps.MMMMM = int(b2 & 0x1F)
	switch ps.MMMMM {
	case 1, 2, 3:
		// valid
	default:
		return ps, StatusInvalidMap
	}
	ps.W = b3>>7&1 != 0
	vvvv := ^(b3 >> 3) & 0xF
	ps.VVVV = int(vvvv)
	ps.LL = int(b3 >> 2 & 1)
	ps.PP = int(b3 & 0x3)
	rec.Encoding = EncodingVEX
	rec.OpcodeMap = mapFromMMMMM(ps.MMMMM)
	return ps, StatusSuccess
}

func decodeEVEXOrMVEX(cur *Cursor, rec *InstructionRecord) (RawPrefixes, Status) {
	p0, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	if p0>>2&0x3 != 0 {
		return RawPrefixes{}, StatusMalformedEVEX
	}
	p1, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	p2, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}

	var ps RawPrefixes
	ps.R = invert(p0 >> 7 & 1)
	ps.X = invert(p0 >> 6 & 1)
	ps.B = invert(p0 >> 5 & 1)
	ps.R2 = invert(p0 >> 4 & 1)
	ps.MMMMM = int(p0 & 0x3)
	if ps.MMMMM > 3 {
		return ps, StatusInvalidMap
	}

	ps.W = p1>>7&1 != 0
	vvvv := ^(p1 >> 3) & 0xF
	ps.VVVV = int(vvvv)
	ps.PP = int(p1 & 0x3)

	isEVEX := p1>>2&1 != 0
	if isEVEX {
		ps.Z = p2>>7&1 != 0
		lp := p2 >> 6 & 1
		l := p2 >> 5 & 1
		ps.LL = int(lp<<1 | l)
		if ps.LL == 3 {
			return ps, StatusDecodingError
		}
		ps.B_ = p2>>4&1 != 0
		ps.V2 = invert(p2 >> 3 & 1)
		ps.AAA = int(p2 & 0x7)
		rec.Encoding = EncodingEVEX
		rec.OpcodeMap = mapFromMMMMM(ps.MMMMM)
		return ps, StatusSuccess
	}

	// MVEX: Xeon Phi vector encoding, reusing the EVEX byte shape with an
	// eviction-hint/swizzle-enable bit and a 3-bit swizzle/conversion field
	// instead of z/broadcast.
	ps.E = p2>>7&1 != 0
	ps.SSS = int(p2 >> 4 & 0x7)
	ps.KKK = int(p2 & 0x7)
	l := p0 >> 4 & 1 // MVEX has no L'; vector length is always 512 (one bit reserved)
	_ = l
	ps.LL = 2 // MVEX instructions are always 512-bit
	rec.Encoding = EncodingMVEX
	rec.OpcodeMap = mapFromMMMMM(ps.MMMMM)
	return ps, StatusSuccess
}

func decodeXOP(cur *Cursor, rec *InstructionRecord) (RawPrefixes, Status) {
	p0, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	mmmmm := p0 & 0x1F
	if mmmmm < 8 {
		return RawPrefixes{}, StatusInvalidMap
	}
	p1, status := cur.Next(rec)
	if status != StatusSuccess {
		return RawPrefixes{}, status
	}
	var ps RawPrefixes
	ps.R = invert(p0 >> 7 & 1)
	ps.X = invert(p0 >> 6 & 1)
	ps.B = invert(p0 >> 5 & 1)
	ps.MMMMM = int(mmmmm)
	switch ps.MMMMM {
	case 8, 9, 10:
		// valid (map XOP8/9/A)
	default:
		return ps, StatusInvalidMap
	}
	ps.W = p1>>7&1 != 0
	vvvv := ^(p1 >> 3) & 0xF
	ps.VVVV = int(vvvv)
	ps.LL = int(p1 >> 2 & 1)
	ps.PP = int(p1 & 0x3)
	rec.Encoding = EncodingXOP
	rec.OpcodeMap = mapFromMMMMM(ps.MMMMM)
	return ps, StatusSuccess
}

func mapFromMMMMM(mmmmm int) OpcodeMap {
	switch mmmmm {
	case 1:
		return Map0F
	case 2:
		return Map0F38
	case 3:
		return Map0F3A
	case 8:
		return MapXOP8
	case 9:
		return MapXOP9
	case 10:
		return MapXOPA
	}
	return MapDefault
}
