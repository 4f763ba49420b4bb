package decoder

import (
	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/decoder/mnemonic"
)

// SemanticType is the operand-slot vocabulary of §3.3: what kind of thing an
// operand definition resolves to, independent of its concrete size.
type SemanticType int

const (
	SemNone SemanticType = iota
	SemGPR8
	SemGPR16
	SemGPR32
	SemGPR64
	SemGPR163264 // GPR16/32/64, selected by EOSZ
	SemGPR323264 // GPR32/32/64 (REX.W only widens to 64)
	SemGPR163232 // GPR16/32/32 (no 64-bit form)
	SemXMM
	SemYMM
	SemZMM
	SemMask
	SemBound
	SemFPR
	SemMMX
	SemCR
	SemDR
	SemSREG
	SemMem
	SemMemVSIBX
	SemMemVSIBY
	SemMemVSIBZ
	SemPtr
	SemAgen
	SemMoffs
	SemImm
	SemRel
	SemFixedReg // a specific, hard-coded register (AL, ECX, ES, ST0, ...)
)

// TupleType is the EVEX/MVEX compressed-disp8 scaling classifier (§4.8).
type TupleType int

const (
	TupleNone TupleType = iota
	TupleFV
	TupleHV
	TupleFVM
	TupleT1S
	TupleT1F
	TupleGSCAT
	TupleT2
	TupleT4
	TupleT8
	TupleHVM
	TupleQVM
	TupleOVM
	TupleM128
	TupleDUP
)

// Functionality is the EVEX functionality selector used by the AVX resolver
// to decide between normal/broadcast/rounding-control/SAE handling.
type Functionality int

const (
	FuncNormal Functionality = iota
	FuncBroadcast
	FuncRoundingControl
	FuncSAE
)

// OperandDef is a slot-typed operand template, an entry in an
// InstructionDefinition's operand_defs list (§3.3).
type OperandDef struct {
	Semantic       SemanticType
	SizePerEOSZ    [3]int // indexed by EOSZClass; 0 means "use the register's native width"
	EncodingSource EncodingSource
	Action         Action
	Visibility     Visibility
	FixedRegister  x86.Register // only meaningful when Semantic == SemFixedReg
}

// AcceptanceFlags is the bitset of prefixes/behaviors a definition declares
// itself willing to accept (§3.3, consumed by the attribute finalizer).
type AcceptanceFlags uint16

const (
	AcceptsLock AcceptanceFlags = 1 << iota
	AcceptsRep
	AcceptsRepe
	AcceptsRepne
	AcceptsBound
	AcceptsXacquire
	AcceptsXrelease
	AcceptsHLEWithoutLock
	AcceptsBranchHints
	AcceptsSegmentOverrides
)

// FixedOperandSize64 marks an operand_size_map policy that is not one of the
// six §4.6 policies but instead forces a constant width (used for the
// FIXED_64 case called out in §3.3's invariants).
const FixedOperandSize64 = SizePolicy(-1)

// InstructionDefinition is the input to the decoder from static tables
// (§3.3): everything the opcode tree's leaf references to let the operand
// materializer, size resolver and attribute finalizer do their work.
type InstructionDefinition struct {
	Mnemonic      mnemonic.Mnemonic
	OperandDefs   [4]OperandDef
	NumOperands   int
	SizePolicy    SizePolicy
	Acceptance    AcceptanceFlags
	ExceptionClass string
	ISASet        string
	ISAExt        string
	Category      string

	TupleType     TupleType
	ElementSize   int
	Functionality Functionality
}
