package decoder

// sib holds the decoded SIB byte fields plus the base/index register ids
// they select, resolved against addressing mode (§4.5).
type sib struct {
	scale int
	index int
	base  int
	noIndex bool
	noBase  bool // mod==0 && base==101: disp32 with no base register
}

// readAddressing consumes the SIB byte (if the ModR/M indicates one) and
// any displacement, leaving the result cached on decodeState for the
// operand materializer to turn into a Memory struct. It must be called
// after the ModR/M byte has already been read and only when ModRM.mod != 3.
func (s *decodeState) readAddressing() (sib, Status) {
	if s.addrParsed {
		return s.cachedSIB(), StatusSuccess
	}
	s.resolveAddressSizeOnce()
	s.addrParsed = true

	if s.addressSize == 16 {
		return s.readAddressing16()
	}
	return s.readAddressing3264()
}

func (s *decodeState) cachedSIB() sib {
	return sib{scale: s.sibScale, index: s.sibIndex, base: s.sibBase, noBase: s.sibBase == -1}
}

// readAddressing16 implements the legacy 16-bit Mod/RM addressing table:
// no SIB byte exists, and mod==00,rm==110 is the disp16-only special case.
func (s *decodeState) readAddressing16() (sib, Status) {
	if s.modMod == 0 && s.modRM == 6 {
		v, status := s.cur.NextLE(s.rec, 2)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = int64(int16(v))
		s.dispSize = 2
		s.hasDisp = true
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 2
		s.rec.HasDisp = true
		return sib{noBase: true, noIndex: true}, StatusSuccess
	}
	if s.modMod == 1 {
		v, status := s.cur.Next(s.rec)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = int64(int8(v))
		s.dispSize = 1
		s.hasDisp = true
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 1
		s.rec.HasDisp = true
	} else if s.modMod == 2 {
		v, status := s.cur.NextLE(s.rec, 2)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = int64(int16(v))
		s.dispSize = 2
		s.hasDisp = true
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 2
		s.rec.HasDisp = true
	}
	return sib{noIndex: true}, StatusSuccess
}

// readAddressing3264 implements the 32/64-bit Mod/RM+SIB addressing rules:
// rm==100 selects a SIB byte, and (mod==00,rm==101) is RIP-relative in
// 64-bit mode or disp32-with-no-base otherwise.
func (s *decodeState) readAddressing3264() (sib, Status) {
	var result sib
	if s.modRM == 4 {
		b, status := s.cur.Next(s.rec)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.sib = b
		s.sibParsed = true
		result.scale = 1 << (b >> 6 & 0x3)
		result.index = int(b >> 3 & 0x7)
		result.base = int(b & 0x7)
		s.sibScale = result.scale
		s.sibIndex = result.index
		s.sibBase = result.base
		if result.index == 4 {
			// no-index encoding; VSIB forms override this at the operand
			// materializer, where a vector index register is always present.
			result.noIndex = true
		}
		if s.modMod == 0 && result.base == 5 {
			result.noBase = true
			s.sibBase = -1
			v, status := s.cur.NextLE(s.rec, 4)
			if status != StatusSuccess {
				return sib{}, status
			}
			s.dispValue = int64(int32(v))
			s.dispSize = 4
			s.hasDisp = true
			s.rec.Disp = s.dispValue
			s.rec.DispSize = 4
			s.rec.HasDisp = true
		}
	} else if s.modMod == 0 && s.modRM == 5 {
		result.noBase = true
		s.sibBase = -1
		v, status := s.cur.NextLE(s.rec, 4)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = int64(int32(v))
		s.dispSize = 4
		s.hasDisp = true
		s.ripRelative = s.mode == Mode64
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 4
		s.rec.HasDisp = true
	} else {
		result.noIndex = true
		result.base = s.modRM
		s.sibBase = result.base
		s.sibIndex = -1
	}

	switch s.modMod {
	case 1:
		v, status := s.cur.Next(s.rec)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = addCompressedDisp(s, int64(int8(v)))
		s.dispSize = 1
		s.hasDisp = true
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 1
		s.rec.HasDisp = true
	case 2:
		v, status := s.cur.NextLE(s.rec, 4)
		if status != StatusSuccess {
			return sib{}, status
		}
		s.dispValue = int64(int32(v))
		s.dispSize = 4
		s.hasDisp = true
		s.rec.Disp = s.dispValue
		s.rec.DispSize = 4
		s.rec.HasDisp = true
	}
	return result, StatusSuccess
}

// addCompressedDisp exists as the hook point for EVEX/MVEX compressed-disp8
// scaling (§4.8): a disp8 under those encodings is multiplied by the
// active tuple type's element scale before use. Plain legacy/VEX
// instructions scale by 1.
func addCompressedDisp(s *decodeState, disp8 int64) int64 {
	if s.compressedDispScale > 1 {
		return disp8 * int64(s.compressedDispScale)
	}
	return disp8
}

// readImmediates consumes the 0, 1 or 2 immediate operands a definition
// calls for, sizing each per the matched EOSZ class (a zero width reads 4
// bytes) and flagging relative branch displacements as Relative.
func (s *decodeState) readImmediates(defn *InstructionDefinition) Status {
	if s.immParsed {
		return StatusSuccess
	}
	s.immParsed = true
	for i := 0; i < defn.NumOperands; i++ {
		def := defn.OperandDefs[i]
		if def.EncodingSource != SourceImmediate0 && def.EncodingSource != SourceImmediate1 {
			continue
		}
		bits := def.SizePerEOSZ[s.eosz]
		size := bits / 8
		if size == 0 {
			size = 4
		}
		raw, status := s.cur.NextLE(s.rec, size)
		if status != StatusSuccess {
			return status
		}
		idx := s.numImm
		if idx >= 2 {
			return StatusDecodingError
		}
		signed := signExtend(raw, size)
		s.imm[idx] = Immediate{Value: uint64(signed), Signed: true, Relative: def.Semantic == SemRel}
		s.immSize[idx] = size
		s.numImm++
		s.rec.Imm[idx] = s.imm[idx]
		s.rec.ImmSize[idx] = size
	}
	s.rec.NumImm = s.numImm
	return StatusSuccess
}

func signExtend(v uint64, size int) int64 {
	switch size {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return int64(v)
	}
}
