// Package tables holds the static opcode tree and instruction-definition
// data the decoder walks. It imports internal/decoder (never the other
// way around) so the core engine stays free of any dependency on how its
// data is authored.
package tables

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/decoder"
	"github.com/keurnel/x86decode/internal/decoder/mnemonic"
)

// Definitions is the flat instruction-definition table; opcode-tree leaves
// reference entries by index.
var Definitions []decoder.InstructionDefinition

// Root is the entry point of the opcode tree, covering the one-byte
// opcode space plus the legacy two-byte (0F) map, the 3DNow! suffix map,
// and a VEX/EVEX escape subtree for the 0F map, for a representative
// instruction set. No XOP map is wired.
var Root *decoder.Node

func init() {
	Definitions, Root = build()
}

type defBuilder struct {
	defs []decoder.InstructionDefinition
}

func (b *defBuilder) add(d decoder.InstructionDefinition) int {
	b.defs = append(b.defs, d)
	return len(b.defs) - 1
}

func leaf(idx int) *decoder.Node {
	return &decoder.Node{Kind: decoder.NodeDefinition, DefIndex: idx}
}

func invalid() *decoder.Node {
	return &decoder.Node{Kind: decoder.NodeInvalid}
}

func table(size int) *decoder.Node {
	return &decoder.Node{Kind: decoder.NodeTable, Children: make([]*decoder.Node, size)}
}

func rm(semantic decoder.SemanticType, source decoder.EncodingSource, action decoder.Action, size16, size32, size64 int) decoder.OperandDef {
	return decoder.OperandDef{
		Semantic:       semantic,
		SizePerEOSZ:    [3]int{size16, size32, size64},
		EncodingSource: source,
		Action:         action,
		Visibility:     decoder.VisibilityExplicit,
	}
}

func fixedReg(reg x86.Register, action decoder.Action) decoder.OperandDef {
	return decoder.OperandDef{
		Semantic:      decoder.SemFixedReg,
		FixedRegister: reg,
		Action:        action,
		Visibility:    decoder.VisibilityImplicit,
	}
}

func imm(source decoder.EncodingSource, size16, size32, size64 int) decoder.OperandDef {
	return decoder.OperandDef{
		Semantic:       decoder.SemImm,
		SizePerEOSZ:    [3]int{size16, size32, size64},
		EncodingSource: source,
		Action:         decoder.ActionR,
		Visibility:     decoder.VisibilityExplicit,
	}
}

func rel(source decoder.EncodingSource, size16, size32, size64 int) decoder.OperandDef {
	return decoder.OperandDef{
		Semantic:       decoder.SemRel,
		SizePerEOSZ:    [3]int{size16, size32, size64},
		EncodingSource: source,
		Action:         decoder.ActionR,
		Visibility:     decoder.VisibilityExplicit,
	}
}

func build() ([]decoder.InstructionDefinition, *decoder.Node) {
	b := &defBuilder{}

	root := table(256)

	// --- NOP / XCHG / PAUSE (0x90) ---------------------------------------
	nop := b.add(decoder.InstructionDefinition{
		Mnemonic:   mnemonic.NOP,
		SizePolicy: decoder.SizeDefault,
		Acceptance: decoder.AcceptsRep,
		Category:   "GENERAL",
		ISASet:     "I86",
	})
	root.Children[0x90] = leaf(nop)

	// --- XCHG r/m, r (0x86/0x87) ------------------------------------------
	xchg8 := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.XCHG,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionRW, 8, 8, 8),
			rm(decoder.SemGPR8, decoder.SourceModRMReg, decoder.ActionRW, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Acceptance: decoder.AcceptsLock,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	xchg := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.XCHG,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionRW, 16, 32, 64),
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionRW, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Acceptance: decoder.AcceptsLock,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	root.Children[0x86] = modrmRMRegTable(xchg8)
	root.Children[0x87] = modrmRMRegTable(xchg)

	// --- MOV r/m, r and r, r/m (0x88-0x8B) ----------------------------------
	mov88 := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOV,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionW, 8, 8, 8),
			rm(decoder.SemGPR8, decoder.SourceModRMReg, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	mov89 := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOV,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionW, 16, 32, 64),
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	mov8A := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOV,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR8, decoder.SourceModRMReg, decoder.ActionW, 8, 8, 8),
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	mov8B := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOV,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionW, 16, 32, 64),
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	root.Children[0x88] = modrmRMRegTable(mov88)
	root.Children[0x89] = modrmRMRegTable(mov89)
	root.Children[0x8A] = modrmRMRegTable(mov8A)
	root.Children[0x8B] = modrmRMRegTable(mov8B)

	// --- LEA r, m (0x8D) -----------------------------------------------------
	lea := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.LEA,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionW, 16, 32, 64),
			rm(decoder.SemAgen, decoder.SourceModRMRM, decoder.ActionR, 0, 0, 0),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "DATAXFER",
		ISASet:     "I86",
	})
	root.Children[0x8D] = modrmRMRegTable(lea)

	// --- PUSH/POP r (0x50-0x5F), register embedded in opcode ----------------
	push := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.PUSH,
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceOpcode, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeForced64InLongMode,
		Category:   "PUSH",
		ISASet:     "I86",
	})
	pop := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.POP,
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceOpcode, decoder.ActionW, 16, 32, 64),
		},
		SizePolicy: decoder.SizeForced64InLongMode,
		Category:   "POP",
		ISASet:     "I86",
	})
	for o := byte(0x50); o <= 0x57; o++ {
		root.Children[o] = leaf(push)
	}
	for o := byte(0x58); o <= 0x5F; o++ {
		root.Children[o] = leaf(pop)
	}

	// --- ADD/XOR/CMP al/eAX,imm and r/m,r forms (0x00-0x05, 0x30-0x35, 0x38-0x3D) ---
	arithFamily(b, root, mnemonic.ADD, 0x00, "BINARY")
	arithFamily(b, root, mnemonic.XOR, 0x30, "LOGICAL")
	arithFamily(b, root, mnemonic.CMP, 0x38, "BINARY")

	// --- JMP rel8 (0xEB), CALL rel32 (0xE8), RET (0xC3) ----------------------
	jmpRel8 := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.JMP_REL8,
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rel(decoder.SourceImmediate0, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Category:   "UNCOND_BR",
		ISASet:     "I86",
	})
	callRel32 := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.CALL,
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rel(decoder.SourceImmediate0, 16, 32, 32),
		},
		SizePolicy: decoder.SizeForced32UnlessRexW,
		Category:   "CALL",
		ISASet:     "I86",
	})
	ret := b.add(decoder.InstructionDefinition{
		Mnemonic:   mnemonic.RET,
		SizePolicy: decoder.SizeDefault,
		Category:   "RET",
		ISASet:     "I86",
	})
	root.Children[0xEB] = leaf(jmpRel8)
	root.Children[0xE8] = leaf(callRel32)
	root.Children[0xC3] = leaf(ret)

	// --- FF group: INC/DEC/PUSH by ModRM.reg; other reg values are invalid ----
	incRM := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.ADD, // placeholder INC behavior reuses ADD's shape
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionRW, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "BINARY",
		ISASet:     "I86",
	})
	pushRM := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.PUSH,
		NumOperands: 1,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeForced64InLongMode,
		Category:   "PUSH",
		ISASet:     "I86",
	})
	ffGroup := table(8)
	ffGroup.Children[0] = modRegFiltered(incRM) // INC
	ffGroup.Children[1] = modRegFiltered(incRM) // DEC (shares shape in this subset)
	ffGroup.Children[6] = modRegFiltered(pushRM) // PUSH r/m
	ffGroup.Children[7] = invalid()             // reg=7: no defined /7 form
	ff := &decoder.Node{Kind: decoder.NodeModRMMod}
	ff.Children = []*decoder.Node{regExtNode(ffGroup), regExtNode(ffGroup), regExtNode(ffGroup), regExtNode(ffGroup)}
	root.Children[0xFF] = ff

	// --- two-byte opcode map (0x0F) ------------------------------------------
	map0F := table(256)
	map0F.OpcodeMap = decoder.Map0F
	root.Children[0x0F] = map0F

	movzx := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOVZX,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionW, 16, 32, 64),
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "DATAXFER",
		ISASet:     "I386",
	})
	movsx := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.MOVSX,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionW, 16, 32, 64),
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   "DATAXFER",
		ISASet:     "I386",
	})
	map0F.Children[0xB6] = modrmRMRegTable(movzx)
	map0F.Children[0xB7] = modrmRMRegTable(movzx)
	map0F.Children[0xBE] = modrmRMRegTable(movsx)
	map0F.Children[0xBF] = modrmRMRegTable(movsx)

	swapgs := b.add(decoder.InstructionDefinition{
		Mnemonic:   mnemonic.SWAPGS,
		SizePolicy: decoder.SizeDefault,
		Category:   "SYSTEM",
		ISASet:     "LONGMODE",
	})
	grp01 := table(256)
	grp01.Children[0xF8] = leaf(swapgs)
	map0F.Children[0x01] = grp01

	// --- 3DNow! suffix map (0F 0F) --------------------------------------------
	pfrcp := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.PFRCP,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemMMX, decoder.SourceModRMReg, decoder.ActionW, 64, 64, 64),
			rm(decoder.SemMMX, decoder.SourceModRMRM, decoder.ActionR, 64, 64, 64),
		},
		SizePolicy: decoder.FixedOperandSize64,
		Category:   "3DNOW",
		ISASet:     "3DNOW",
	})
	suffixMap := table(256)
	suffixMap.Children[0xBF] = leaf(pfrcp)
	map0F.Children[0x0F] = &decoder.Node{Kind: decoder.Node3DNOW, Children: suffixMap.Children}

	// --- VEX/EVEX escape subtrees, keyed by opcode map ------------------------
	vzeroupper := b.add(decoder.InstructionDefinition{
		Mnemonic:   mnemonic.VZEROUPPER,
		SizePolicy: decoder.SizeDefault,
		Category:   "AVX",
		ISASet:     "AVX",
	})
	vaddps := b.add(decoder.InstructionDefinition{
		Mnemonic:    mnemonic.VADDPS,
		NumOperands: 3,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemZMM, decoder.SourceModRMReg, decoder.ActionW, 0, 0, 0),
			rm(decoder.SemZMM, decoder.SourceVVVV, decoder.ActionR, 0, 0, 0),
			rm(decoder.SemZMM, decoder.SourceModRMRM, decoder.ActionR, 0, 0, 0),
		},
		SizePolicy:    decoder.SizeDefault,
		Category:      "AVX512",
		ISASet:        "AVX512F",
		TupleType:     decoder.TupleFV,
		ElementSize:   4,
		Functionality: decoder.FuncRoundingControl,
	})
	vexMap0F := table(256)
	vexMap0F.Children[0x77] = leaf(vzeroupper)
	vexMap0F.Children[0x58] = leaf(vaddps)

	root.EscapeChildren = map[decoder.OpcodeMap]*decoder.Node{
		decoder.Map0F: vexMap0F,
	}

	return b.defs, root
}

// EscapeMaps returns the opcode maps the root node can detour into via an
// escape prefix, sorted for stable CLI/debug output (see `x86decode
// x86_64 maps`).
func EscapeMaps() []decoder.OpcodeMap {
	keys := maps.Keys(Root.EscapeChildren)
	slices.Sort(keys)
	return keys
}

// PopulatedOpcodes returns the one-byte opcode values the root table has a
// leaf or subtree wired for, sorted ascending.
func PopulatedOpcodes() []int {
	var out []int
	for i, c := range Root.Children {
		if c != nil && c.Kind != decoder.NodeInvalid {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// modrmRMRegTable wraps a single definition so its leaf is reached
// uniformly regardless of ModR/M.mod (register vs. memory r/m forms share
// one definition; the operand materializer distinguishes them at
// resolution time from ModRM.mod itself).
func modrmRMRegTable(defIdx int) *decoder.Node {
	return leaf(defIdx)
}

// modRegFiltered returns the plain leaf for one slot of a ModRM.reg-indexed
// group table (the "/digit" group opcodes); the MODRM_REG filter node over
// the group is added by regExtNode.
func modRegFiltered(defIdx int) *decoder.Node {
	return leaf(defIdx)
}

func regExtNode(group *decoder.Node) *decoder.Node {
	return &decoder.Node{Kind: decoder.NodeModRMReg, Children: group.Children}
}

// arithFamily wires the classic 6-opcode legacy arithmetic shape
// (r/m8,r8 / r/m,r / r8,r/m8 / r,r/m / AL,imm8 / eAX,imm) for mnemonics
// that share it, returning the r/m,r definition index.
func arithFamily(b *defBuilder, root *decoder.Node, m mnemonic.Mnemonic, base byte, category string) int {
	rm8rm := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionRW, 8, 8, 8),
			rm(decoder.SemGPR8, decoder.SourceModRMReg, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Acceptance: decoder.AcceptsLock,
		Category:   category,
		ISASet:     "I86",
	})
	rmreg := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionRW, 16, 32, 64),
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Acceptance: decoder.AcceptsLock,
		Category:   category,
		ISASet:     "I86",
	})
	reg8rm := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR8, decoder.SourceModRMReg, decoder.ActionRW, 8, 8, 8),
			rm(decoder.SemGPR8, decoder.SourceModRMRM, decoder.ActionR, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Acceptance: decoder.AcceptsLock,
		Category:   category,
		ISASet:     "I86",
	})
	regrm := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			rm(decoder.SemGPR163264, decoder.SourceModRMReg, decoder.ActionRW, 16, 32, 64),
			rm(decoder.SemGPR163264, decoder.SourceModRMRM, decoder.ActionR, 16, 32, 64),
		},
		SizePolicy: decoder.SizeDefault,
		Acceptance: decoder.AcceptsLock,
		Category:   category,
		ISASet:     "I86",
	})
	alImm8 := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			fixedReg(x86.AL, decoder.ActionRW),
			imm(decoder.SourceImmediate0, 8, 8, 8),
		},
		SizePolicy: decoder.SizeOperandOverrideIgnored,
		Category:   category,
		ISASet:     "I86",
	})
	eaxImm := b.add(decoder.InstructionDefinition{
		Mnemonic:    m,
		NumOperands: 2,
		OperandDefs: [4]decoder.OperandDef{
			fixedReg(x86.EAX, decoder.ActionRW),
			imm(decoder.SourceImmediate0, 16, 32, 32),
		},
		SizePolicy: decoder.SizeDefault,
		Category:   category,
		ISASet:     "I86",
	})

	root.Children[base+0] = modrmRMRegTable(rm8rm)
	root.Children[base+1] = modrmRMRegTable(rmreg)
	root.Children[base+2] = modrmRMRegTable(reg8rm)
	root.Children[base+3] = modrmRMRegTable(regrm)
	root.Children[base+4] = leaf(alImm8)
	root.Children[base+5] = leaf(eaxImm)
	return rmreg
}
