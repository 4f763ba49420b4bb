package decoder

import (
	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/decoder/mnemonic"
)

// MachineMode is the execution mode a decode call is performed under.
type MachineMode int

const (
	Mode16 MachineMode = 16
	Mode32 MachineMode = 32
	Mode64 MachineMode = 64
)

// Encoding is the prefix scheme used to encode an instruction, aliased
// from architecture/x86_64's InstructionEncoding constants
// (LEGACY/3DNOW/XOP/VEX/EVEX/MVEX).
type Encoding = x86.InstructionEncoding

const (
	EncodingLegacy = x86.EncodingLegacy
	Encoding3DNOW  = x86.Encoding3DNOW
	EncodingXOP    = x86.EncodingXOP
	EncodingVEX    = x86.EncodingVEX
	EncodingEVEX   = x86.EncodingEVEX
	EncodingMVEX   = x86.EncodingMVEX
)

// OpcodeMap identifies which opcode table an opcode byte is looked up in.
type OpcodeMap int

const (
	MapDefault OpcodeMap = iota
	Map0F
	Map0F38
	Map0F3A
	Map0F0F
	MapXOP8
	MapXOP9
	MapXOPA
)

// Attributes is a bitset of the decode-time flags set by the prefix
// collector and finalized by the attribute finalizer (§4.9).
type Attributes uint32

const (
	AttrHasOperandSize Attributes = 1 << iota
	AttrHasAddressSize
	AttrHasLock
	AttrHasRep
	AttrHasRepne
	AttrHasRepe
	AttrHasXacquire
	AttrHasXrelease
	AttrHasBnd
	AttrHasBranchNotTaken
	AttrHasBranchTaken
	AttrHasSegmentCS
	AttrHasSegmentSS
	AttrHasSegmentDS
	AttrHasSegmentES
	AttrHasSegmentFS
	AttrHasSegmentGS
	AttrIsRelative

	// AttrAccepts* mirror the matched definition's AcceptanceFlags
	// one-for-one (§4.9's "for each acceptance flag present" bullet),
	// independent of which prefixes actually appeared on the wire.
	AttrAcceptsLock
	AttrAcceptsRep
	AttrAcceptsRepe
	AttrAcceptsRepne
	AttrAcceptsBound
	AttrAcceptsXacquire
	AttrAcceptsXrelease
	AttrAcceptsHLEWithoutLock
	AttrAcceptsBranchHints
	AttrAcceptsSegmentOverrides
)

func (a Attributes) Has(bit Attributes) bool { return a&bit != 0 }

// OperandTag is the discriminant of a materialized Operand.
type OperandTag int

const (
	OperandUnused OperandTag = iota
	OperandRegisterTag
	OperandMemoryTag
	OperandPointerTag
	OperandImmediateTag
)

// Visibility classifies whether an operand is written out by the mnemonic
// syntax, implied by it, or entirely hidden from the textual form.
type Visibility int

const (
	VisibilityExplicit Visibility = iota
	VisibilityImplicit
	VisibilityHidden
)

// Action is the read/write mask on an operand, limited to the nine values
// below: ActionNone plus eight read/write combinations.
type Action int

const (
	ActionNone Action = iota
	ActionR
	ActionW
	ActionRW
	ActionCR
	ActionCRW
	ActionCW
	ActionRCW
	ActionCRCW
)

// ElementType classifies the per-lane interpretation of a vector operand.
type ElementType int

const (
	ElementInvalid ElementType = iota
	ElementInt
	ElementUint
	ElementFloat16
	ElementFloat32
	ElementFloat64
	ElementFloat80
	ElementLongBCD
	ElementCC
	ElementStruct
)

// Memory describes a memory operand's addressing components.
type Memory struct {
	Segment      x86.Register
	Base         x86.Register
	HasBase      bool
	Index        x86.Register
	HasIndex     bool
	Scale        int // one of {0, 1, 2, 4, 8}
	Displacement int64
	HasDisp      bool
}

// Pointer describes a far-pointer immediate operand (segment:offset).
type Pointer struct {
	Segment uint16
	Offset  uint32 // 16- or 32-bit offset, per operand size
}

// Immediate describes an immediate or relative-displacement operand.
type Immediate struct {
	Value    uint64
	Signed   bool
	Relative bool
}

// Operand is a single decoded operand slot (§3.2).
type Operand struct {
	Tag            OperandTag
	Visibility     Visibility
	Action         Action
	Size           int
	Register       x86.Register
	Memory         Memory
	Pointer        Pointer
	Immediate      Immediate
	ElementCount   int
	ElementSize    int
	ElementType    ElementType
	EncodingSource EncodingSource
}

// EncodingSource records where in the instruction bytes an operand's value
// or register id came from.
type EncodingSource int

const (
	SourceNone EncodingSource = iota
	SourceModRMReg
	SourceModRMRM
	SourceOpcode
	SourceVVVV
	SourceMaskAAA
	SourceIs4
	SourceImmediate0
	SourceImmediate1
)

// RawPrefixes is a uniform view over whichever escape prefix (if any) was
// decoded, in the same positive polarity regardless of source (§4.3).
type RawPrefixes struct {
	HasREX  bool
	REXByte byte

	R, X, B, W bool // REX/VEX/EVEX extension bits, canonicalized positive
	R2, V2     bool // EVEX R', V' extension bits
	LL         int  // vector length class, 0..3 (3 illegal)
	VVVV       int  // 4- or 5-bit NDS/NDD register selector (cache.v_vvvv)
	PP         int  // mandatory-prefix / VEX.pp field
	MMMMM      int  // VEX/EVEX map field
	AAA        int  // EVEX mask register selector
	KKK        int  // MVEX mask register selector
	Z          bool // EVEX zeroing flag
	B_         bool // EVEX broadcast/rounding-control bit (field name "b")
	E          bool // MVEX eviction-hint / swizzle-enable bit
	SSS        int  // MVEX swizzle/conversion field
}

// AVXInfo is the optional sub-record populated for VEX/EVEX/MVEX
// instructions by the AVX-extension resolver (§4.8).
type AVXInfo struct {
	VectorLength     int // 128, 256 or 512
	MaskRegister     x86.Register
	MaskMerge        bool // true = merge, false = zero
	RoundingControl  int  // -1 = not applicable, else 0..3
	SAE              bool
	BroadcastMode    string // "", "1to2", "1to4", "1to8", "1to16"
	Swizzle          string
	Conversion       string
	CompressedScale  int
	ElementSize      int
}

// InstructionRecord is the decoder's output (§3.1).
type InstructionRecord struct {
	Mnemonic     mnemonic.Mnemonic
	Length       int
	RawBytes     []byte
	MachineMode  MachineMode
	OperandSize  int
	AddressSize  int
	Encoding     Encoding
	OpcodeMap    OpcodeMap
	Opcode       byte
	Attributes   Attributes
	Operands     [4]Operand
	Prefixes     RawPrefixes
	ModRM        byte
	HasModRM     bool
	SIB          byte
	HasSIB       bool
	Disp         int64
	HasDisp      bool
	DispSize     int
	Imm          [2]Immediate
	ImmSize      [2]int
	NumImm       int
	AVX          *AVXInfo
	Status       Status
	IsaSet       string
	Category     string
	ExceptionClass string

	instructionPointer uint64
}

// InstructionPointer returns the address this instruction was decoded at.
func (r *InstructionRecord) InstructionPointer() uint64 { return r.instructionPointer }

// ISASet returns the instruction's ISA-extension metadata tag, e.g. "AVX512F".
func (r *InstructionRecord) ISASet() string { return r.IsaSet }

// CategoryOf returns the instruction's broad functional category, e.g. "DATAXFER".
func (r *InstructionRecord) CategoryOf() string { return r.Category }
