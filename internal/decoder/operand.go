package decoder

import (
	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/decoder/mnemonic"
)

// materializeOperands builds the definition's operand slots into concrete
// Operand values (§4.7): register selection by semantic type and encoding
// source, memory-operand construction from the SIB/displacement already
// cached on decodeState, and the handful of opcode/operand-shape aliases
// that change the mnemonic entirely.
func materializeOperands(st *decodeState, defn *InstructionDefinition) Status {
	resolveAVX(st, defn)

	needsMemory := false
	for i := 0; i < defn.NumOperands; i++ {
		def := defn.OperandDefs[i]
		if def.Semantic == SemMem || def.Semantic == SemMemVSIBX || def.Semantic == SemMemVSIBY ||
			def.Semantic == SemMemVSIBZ || def.Semantic == SemPtr || def.Semantic == SemAgen {
			needsMemory = true
		}
	}
	var addressing sib
	if needsMemory && st.modrmParsed && st.modMod != 3 {
		var status Status
		addressing, status = st.readAddressing()
		if status != StatusSuccess {
			return status
		}
	}

	for i := 0; i < defn.NumOperands; i++ {
		def := defn.OperandDefs[i]
		op := Operand{
			Visibility:     def.Visibility,
			Action:         def.Action,
			EncodingSource: def.EncodingSource,
		}
		size := def.SizePerEOSZ[st.eosz]

		// An r/m register slot addresses memory whenever ModRM.mod != 11.
		if def.EncodingSource == SourceModRMRM && def.Semantic >= SemGPR8 && def.Semantic <= SemMMX {
			if _, status := st.modRMByte(); status != StatusSuccess {
				return status
			}
			if st.modMod != 3 {
				a, status := st.readAddressing()
				if status != StatusSuccess {
					return status
				}
				op.Tag = OperandMemoryTag
				op.Memory = buildMemory(st, a, SemMem)
				op.Size = size
				st.rec.Operands[i] = op
				continue
			}
		}

		switch def.Semantic {
		case SemFixedReg:
			op.Tag = OperandRegisterTag
			op.Register = def.FixedRegister
			op.Size = registerSize(def.FixedRegister)

		case SemGPR8, SemGPR16, SemGPR32, SemGPR64, SemGPR163264, SemGPR323264, SemGPR163232:
			id, status := st.registerID(def.EncodingSource)
			if status != StatusSuccess {
				return status
			}
			class := gprClassFor(def.Semantic, st.eosz, st.raw.W)
			reg, ok := resolveGPR(class, id, st.raw.HasREX)
			if !ok {
				return StatusBadRegister
			}
			op.Tag = OperandRegisterTag
			op.Register = reg
			op.Size = registerSize(reg)

		case SemXMM, SemYMM, SemZMM, SemMMX, SemMask, SemBound, SemFPR, SemCR, SemDR, SemSREG:
			id, status := st.registerID(def.EncodingSource)
			if status != StatusSuccess {
				return status
			}
			class := vectorClassFor(def.Semantic, st.avx)
			reg, ok := x86.ByClassAndID(class, id)
			if !ok {
				return StatusBadRegister
			}
			op.Tag = OperandRegisterTag
			op.Register = reg
			op.Size = registerSize(reg)

		case SemMem, SemMemVSIBX, SemMemVSIBY, SemMemVSIBZ, SemAgen:
			op.Tag = OperandMemoryTag
			op.Memory = buildMemory(st, addressing, def.Semantic)
			op.Size = size

		case SemPtr:
			op.Tag = OperandPointerTag
			op.Size = size

		case SemMoffs:
			op.Tag = OperandMemoryTag
			v, status := st.cur.NextLE(st.rec, st.addressSize/8)
			if status != StatusSuccess {
				return status
			}
			op.Memory = Memory{Displacement: int64(v), HasDisp: true}
			op.Size = size

		case SemImm, SemRel:
			op.Tag = OperandImmediateTag
			idx := def.EncodingSource - SourceImmediate0
			if int(idx) < 0 || int(idx) >= st.numImm {
				return StatusDecodingError
			}
			op.Immediate = st.imm[idx]
			op.Size = st.immSize[idx] * 8

		default:
			op.Tag = OperandUnused
		}

		st.rec.Operands[i] = op
	}

	return applyAliases(st, defn)
}

// registerID resolves an operand's source register id from whichever
// encoding field the definition names.
func (s *decodeState) registerID(source EncodingSource) (int, Status) {
	switch source {
	case SourceModRMReg:
		if _, status := s.modRMByte(); status != StatusSuccess {
			return 0, status
		}
		id := s.modReg
		if s.raw.R {
			id += 8
		}
		if s.raw.R2 {
			id += 16
		}
		return id, StatusSuccess
	case SourceModRMRM:
		if _, status := s.modRMByte(); status != StatusSuccess {
			return 0, status
		}
		id := s.modRM
		if s.modMod == 3 {
			if s.raw.B {
				id += 8
			}
			if s.raw.X && (s.rec.Encoding == EncodingEVEX || s.rec.Encoding == EncodingMVEX) {
				id += 16
			}
		}
		return id, StatusSuccess
	case SourceOpcode:
		id := int(s.opcodeByte & 0x7)
		if s.raw.B {
			id += 8
		}
		return id, StatusSuccess
	case SourceVVVV:
		id := s.raw.VVVV
		if s.raw.V2 {
			id += 16
		}
		return id, StatusSuccess
	case SourceMaskAAA:
		return s.raw.AAA, StatusSuccess
	default:
		return 0, StatusSuccess
	}
}

func gprClassFor(sem SemanticType, eosz EOSZClass, rexW bool) x86.RegisterType {
	switch sem {
	case SemGPR8:
		return x86.Register8
	case SemGPR16:
		return x86.Register16
	case SemGPR32:
		return x86.Register32
	case SemGPR64:
		return x86.Register64
	case SemGPR323264:
		if eosz == EOSZ64 {
			return x86.Register64
		}
		return x86.Register32
	case SemGPR163232:
		if eosz == EOSZ16 {
			return x86.Register16
		}
		return x86.Register32
	default: // SemGPR163264
		switch eosz {
		case EOSZ16:
			return x86.Register16
		case EOSZ64:
			return x86.Register64
		default:
			return x86.Register32
		}
	}
}

func resolveGPR(class x86.RegisterType, id int, hasREX bool) (x86.Register, bool) {
	if class == x86.Register8 {
		return x86.GPR8RexForm(id, hasREX)
	}
	return x86.ByClassAndID(class, id)
}

func vectorClassFor(sem SemanticType, avx *AVXInfo) x86.RegisterType {
	switch sem {
	case SemXMM:
		return x86.RegisterXMM
	case SemYMM:
		return x86.RegisterYMM
	case SemZMM:
		return x86.RegisterZMM
	case SemMMX:
		return x86.RegisterMMX
	case SemMask:
		return x86.RegisterMask
	case SemBound:
		return x86.RegisterBound
	case SemFPR:
		return x86.RegisterFPU
	case SemCR:
		return x86.RegisterControl
	case SemDR:
		return x86.RegisterDebug
	case SemSREG:
		return x86.RegisterSegment
	}
	if avx != nil {
		switch avx.VectorLength {
		case 256:
			return x86.RegisterYMM
		case 512:
			return x86.RegisterZMM
		}
	}
	return x86.RegisterXMM
}

func registerSize(r x86.Register) int {
	switch r.Type {
	case x86.Register8:
		return 8
	case x86.Register16:
		return 16
	case x86.Register32:
		return 32
	case x86.Register64, x86.RegisterMMX:
		return 64
	case x86.RegisterXMM:
		return 128
	case x86.RegisterYMM:
		return 256
	case x86.RegisterZMM:
		return 512
	case x86.RegisterFPU:
		return 80
	default:
		return 0
	}
}

func buildMemory(st *decodeState, a sib, sem SemanticType) Memory {
	m := Memory{
		Displacement: st.dispValue,
		HasDisp:      st.hasDisp,
	}
	if st.ripRelative {
		m.Base = x86.RIP
		m.HasBase = true
		return m
	}
	addrClass := x86.Register32
	if st.addressSize == 64 {
		addrClass = x86.Register64
	} else if st.addressSize == 16 {
		m.Base, m.HasBase = base16(st.modRM, st.modMod)
		return m
	}
	if !a.noBase {
		if reg, ok := x86.ByClassAndID(addrClass, a.base); ok {
			m.Base = reg
			m.HasBase = true
		}
	}
	if !a.noIndex {
		indexClass := vsibClassFor(sem, addrClass)
		if reg, ok := x86.ByClassAndID(indexClass, a.index); ok {
			m.Index = reg
			m.HasIndex = true
			m.Scale = a.scale
			if m.Scale == 0 {
				m.Scale = 1
			}
		}
	}
	return m
}

func vsibClassFor(sem SemanticType, addrClass x86.RegisterType) x86.RegisterType {
	switch sem {
	case SemMemVSIBX:
		return x86.RegisterXMM
	case SemMemVSIBY:
		return x86.RegisterYMM
	case SemMemVSIBZ:
		return x86.RegisterZMM
	}
	return addrClass
}

// base16 maps the legacy 16-bit Mod/RM.rm field to its fixed base+index
// register pairing. Only the base half is reported here; the fixed index
// half (BX+SI etc.) is folded in by the formatter, matching how the
// original table pairs them as a single addressing mode rather than two
// independently-scaled components.
func base16(rm, mod int) (x86.Register, bool) {
	if mod == 0 && rm == 6 {
		return x86.Register{}, false
	}
	bases := [...]x86.Register{x86.BX, x86.BX, x86.BP, x86.BP, x86.SI, x86.DI, x86.BP, x86.BX}
	if rm < 0 || rm >= len(bases) {
		return x86.Register{}, false
	}
	return bases[rm], true
}

// applyAliases implements the opcode/operand-shape rewrites that change
// the decoded mnemonic entirely (§4.7): XCHG EAX,EAX or RAX,RAX is NOP
// whatever prefixes precede it, F3 NOP is PAUSE, and SWAPGS outside 64-bit
// mode is illegal.
func applyAliases(st *decodeState, defn *InstructionDefinition) Status {
	switch defn.Mnemonic {
	case mnemonic.XCHG:
		if defn.NumOperands == 2 &&
			st.rec.Operands[0].Tag == OperandRegisterTag && st.rec.Operands[1].Tag == OperandRegisterTag &&
			st.rec.Operands[0].Register == st.rec.Operands[1].Register &&
			(st.rec.Operands[0].Register == x86.EAX || st.rec.Operands[0].Register == x86.RAX) {
			st.rec.Mnemonic = mnemonic.NOP
		}
	case mnemonic.NOP:
		if st.ps.RepCount > 0 {
			st.rec.Mnemonic = mnemonic.PAUSE
		}
	case mnemonic.SWAPGS:
		if st.mode != Mode64 {
			return StatusDecodingError
		}
	}
	return StatusSuccess
}
