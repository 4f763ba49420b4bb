package x86_64

import "github.com/keurnel/x86decode/internal/asm"

const (
	// EncodingLegacy - represents the legacy encoding of 64 instructions (no prefix)
	EncodingLegacy asm.InstructionEncoding = iota
	// EncodingVEX - represents the VEX prefix encoding used for AVX instructions
	EncodingVEX asm.InstructionEncoding = 1
	// EncodingEVEX - represents the EVEX prefix encoding used for AVX-512 instructions
	EncodingEVEX asm.InstructionEncoding = 2
	// EncodingXOP - represents the XOP prefix encoding used for AMD-specific instructions
	EncodingXOP asm.InstructionEncoding = 3
	// Encoding3DNOW - represents the single-opcode-map 3DNow! encoding, whose
	// trailing opcode byte is read after the operand list is already fixed.
	Encoding3DNOW asm.InstructionEncoding = 4
	// EncodingMVEX - represents the MVEX prefix encoding used by Xeon Phi
	// (Knights Corner/Landing) vector instructions.
	EncodingMVEX asm.InstructionEncoding = 5
)
