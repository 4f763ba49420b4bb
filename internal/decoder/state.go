package decoder

// decodeState is the per-call scratch data threaded through the walker,
// the ModR/M/SIB/displacement reader, the operand materializer and the
// attribute finalizer. It never outlives a single DecodeNext call and
// requires no heap allocation beyond what the caller's InstructionRecord
// already carries.
type decodeState struct {
	cur  *Cursor
	rec  *InstructionRecord
	mode MachineMode

	ps  PrefixState
	raw RawPrefixes

	escaped bool // true once an escape prefix was decoded

	modrmParsed bool
	modrm       byte
	modMod      int
	modReg      int
	modRM       int

	sibParsed bool
	sib       byte
	sibScale  int
	sibIndex  int
	sibBase   int

	opcodeByte byte // final opcode byte used to select the definition

	addressSize int
	operandSize int
	eosz        EOSZClass

	addrParsed  bool
	ripRelative bool
	dispValue   int64
	dispSize    int
	hasDisp     bool

	immParsed bool
	imm       [2]Immediate
	immSize   [2]int
	numImm    int

	compressedDispScale int
	avx                 *AVXInfo
}

// resolveAddressSizeOnce fixes the effective address size from the
// collected prefix state. Unlike operand size it does not depend on a
// matched definition's policy; it is resolved after the opcode tree walk,
// or earlier on first use by the ModR/M/SIB reader.
func (s *decodeState) resolveAddressSizeOnce() {
	if s.addressSize != 0 {
		return
	}
	s.addressSize = resolveAddressSize(s.mode, s.ps.HasAddressSizeOverride)
	s.rec.AddressSize = s.addressSize
}

// finalizeOperandSize fixes the effective operand size once a definition's
// size policy is known.
func (s *decodeState) finalizeOperandSize(policy SizePolicy) {
	if policy == FixedOperandSize64 {
		s.operandSize = 64
		s.eosz = EOSZ64
	} else {
		s.operandSize, s.eosz = resolveOperandSize(policy, s.mode, s.ps.HasOperandSizeOverride, s.raw.W)
	}
	s.rec.OperandSize = s.operandSize
}

func (s *decodeState) modRMByte() (byte, Status) {
	if s.modrmParsed {
		return s.modrm, StatusSuccess
	}
	b, status := s.cur.Next(s.rec)
	if status != StatusSuccess {
		return 0, status
	}
	s.modrm = b
	s.modrmParsed = true
	s.modMod = int(b >> 6 & 0x3)
	s.modReg = int(b >> 3 & 0x7)
	s.modRM = int(b & 0x7)
	s.rec.ModRM = b
	s.rec.HasModRM = true
	return b, StatusSuccess
}
