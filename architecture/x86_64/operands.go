package x86_64

import "github.com/keurnel/x86decode/internal/asm"

var (
	// OperandNone - represents no operand
	OperandNone asm.OperandType = asm.OperandType{
		Identifier: "none",
		Type:       "none",
		Size:       0,
	}
	// OperandReg8 - 8-bit register
	OperandReg8 asm.OperandType = asm.OperandType{
		Identifier: "reg8",
		Type:       "register",
		Size:       8,
	}
	// OperandReg16 - 16-bit register
	OperandReg16 asm.OperandType = asm.OperandType{
		Identifier: "reg16",
		Type:       "register",
		Size:       16,
	}
	// OperandReg32 - 32-bit register
	OperandReg32 asm.OperandType = asm.OperandType{
		Identifier: "reg32",
		Type:       "register",
		Size:       32,
	}
	// OperandReg64 - 64-bit register
	OperandReg64 asm.OperandType = asm.OperandType{
		Identifier: "reg64",
		Type:       "register",
		Size:       64,
	}
	// OperandImm8 - 8-bit immediate value
	OperandImm8 asm.OperandType = asm.OperandType{
		Identifier: "imm8",
		Type:       "immediate",
		Size:       8,
	}
	// OperandImm16 - 16-bit immediate value
	OperandImm16 asm.OperandType = asm.OperandType{
		Identifier: "imm16",
		Type:       "immediate",
		Size:       16,
	}
	// OperandImm32 - 32-bit immediate value
	OperandImm32 asm.OperandType = asm.OperandType{
		Identifier: "imm32",
		Type:       "immediate",
		Size:       32,
	}
	// OperandImm64 - 64-bit immediate value
	OperandImm64 asm.OperandType = asm.OperandType{
		Identifier: "imm64",
		Type:       "immediate",
		Size:       64,
	}
	// OperandMem - memory operand (size determined by ModR/M and SIB bytes)
	OperandMem asm.OperandType = asm.OperandType{
		Identifier: "mem",
		Type:       "memory",
		Size:       0, // Size determined by ModR/M and SIB bytes
	}
	// OperandMem8 - 8-bit memory operand
	OperandMem8 asm.OperandType = asm.OperandType{
		Identifier: "mem8",
		Type:       "memory",
		Size:       8,
	}
	// OperandMem16 - 16-bit memory operand
	OperandMem16 asm.OperandType = asm.OperandType{
		Identifier: "mem16",
		Type:       "memory",
		Size:       16,
	}
	// OperandMem32 - 32-bit memory operand
	OperandMem32 asm.OperandType = asm.OperandType{
		Identifier: "mem32",
		Type:       "memory",
		Size:       32,
	}
	// OperandMem64 - 64-bit memory operand
	OperandMem64 asm.OperandType = asm.OperandType{
		Identifier: "mem64",
		Type:       "memory",
		Size:       64,
	}
	// OperandRel8 - 8-bit relative offset
	OperandRel8 asm.OperandType = asm.OperandType{
		Identifier: "rel8",
		Type:       "relative",
		Size:       8,
	}
	// OperandRel32 - 32-bit relative offset
	OperandRel32 asm.OperandType = asm.OperandType{
		Identifier: "rel32",
		Type:       "relative",
		Size:       32,
	}
	// OperandRegMem8 - register or memory operand (size determined by ModR/M and SIB bytes)
	OperandRegMem8 asm.OperandType = asm.OperandType{
		Identifier: "regmem8",
		Type:       "register/memory",
		Size:       8, // Size determined by ModR/M and SIB bytes
	}
	// OperandRegMem16 - register or memory operand (size determined by ModR/M and SIB bytes)
	OperandRegMem16 asm.OperandType = asm.OperandType{
		Identifier: "regmem16",
		Type:       "register/memory",
		Size:       16, // Size determined by ModR/M and SIB bytes
	}
	// OperandRegMem32 - register or memory operand (size determined by ModR/M and SIB bytes)
	OperandRegMem32 asm.OperandType = asm.OperandType{
		Identifier: "regmem32",
		Type:       "register/memory",
		Size:       32, // Size determined by ModR/M and SIB bytes
	}
	// OperandRegMem64 - register or memory operand (size determined by ModR/M and SIB bytes)
	OperandRegMem64 asm.OperandType = asm.OperandType{
		Identifier: "regmem64",
		Type:       "register/memory",
		Size:       64, // Size determined by ModR/M and SIB bytes
	}

	// OperandXMM - 128-bit vector register operand
	OperandXMM asm.OperandType = asm.OperandType{Identifier: "xmm", Type: "register", Size: 128}
	// OperandYMM - 256-bit vector register operand
	OperandYMM asm.OperandType = asm.OperandType{Identifier: "ymm", Type: "register", Size: 256}
	// OperandZMM - 512-bit vector register operand
	OperandZMM asm.OperandType = asm.OperandType{Identifier: "zmm", Type: "register", Size: 512}
	// OperandMMX - 64-bit MMX register operand
	OperandMMX asm.OperandType = asm.OperandType{Identifier: "mmx", Type: "register", Size: 64}
	// OperandMask - AVX-512 mask register operand (K0-K7)
	OperandMask asm.OperandType = asm.OperandType{Identifier: "mask", Type: "register", Size: 64}
	// OperandBound - MPX bound register operand (BND0-3)
	OperandBound asm.OperandType = asm.OperandType{Identifier: "bnd", Type: "register", Size: 128}
	// OperandFPR - x87 FPU stack register operand (ST0-7)
	OperandFPR asm.OperandType = asm.OperandType{Identifier: "fpr", Type: "register", Size: 80}
	// OperandCR - control register operand
	OperandCR asm.OperandType = asm.OperandType{Identifier: "cr", Type: "register", Size: 64}
	// OperandDR - debug register operand
	OperandDR asm.OperandType = asm.OperandType{Identifier: "dr", Type: "register", Size: 64}
	// OperandSREG - segment register operand
	OperandSREG asm.OperandType = asm.OperandType{Identifier: "sreg", Type: "register", Size: 16}

	// OperandMemVSIBX - memory operand whose SIB index is an XMM register (gather/scatter)
	OperandMemVSIBX asm.OperandType = asm.OperandType{Identifier: "mem_vsibx", Type: "memory", Size: 0}
	// OperandMemVSIBY - memory operand whose SIB index is a YMM register (gather/scatter)
	OperandMemVSIBY asm.OperandType = asm.OperandType{Identifier: "mem_vsiby", Type: "memory", Size: 0}
	// OperandMemVSIBZ - memory operand whose SIB index is a ZMM register (gather/scatter)
	OperandMemVSIBZ asm.OperandType = asm.OperandType{Identifier: "mem_vsibz", Type: "memory", Size: 0}
	// OperandMoffs - a segment:offset absolute memory address encoded directly
	// after the opcode (no ModR/M), sized by the effective address size
	OperandMoffs asm.OperandType = asm.OperandType{Identifier: "moffs", Type: "memory", Size: 0}
	// OperandAgen - address-generation operand (memory form required, never
	// dereferenced, as used by LEA)
	OperandAgen asm.OperandType = asm.OperandType{Identifier: "agen", Type: "memory", Size: 0}

	// OperandPtr1616 - far pointer immediate, 16-bit selector : 16-bit offset
	OperandPtr1616 asm.OperandType = asm.OperandType{Identifier: "ptr16:16", Type: "pointer", Size: 32}
	// OperandPtr1632 - far pointer immediate, 16-bit selector : 32-bit offset
	OperandPtr1632 asm.OperandType = asm.OperandType{Identifier: "ptr16:32", Type: "pointer", Size: 48}

	// OperandRel8 variants already declared above; relative branch targets
	// wider than 8 bits reuse OperandRel32 (32-bit relative is used for both
	// 32- and 64-bit operand sizes per the x86-64 ABI's rip-relative branches).
)

const (
	// OperandCountOne - represents instructions that take one operand
	OperandCountOne = 1
	// OperandCountTwo - represents instructions that take two operands
	OperandCountTwo = 2
	// OperandCountThree - represents instructions that take three operands
	OperandCountThree = 3
)
