// Package formatter renders a decoded instruction record as Intel-syntax
// assembly text, the same textual form the teacher's assembler side
// parses on the way in.
package formatter

import (
	"fmt"
	"strings"

	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/asm"
	"github.com/keurnel/x86decode/internal/decoder"
)

// Format renders a single InstructionRecord as an Intel-syntax line, e.g.
// "mov rax, rbx" or "vaddps zmm0, zmm0, zmm1".
func Format(rec *decoder.InstructionRecord) string {
	if rec == nil {
		return "(bad)"
	}
	if !rec.Status.Ok() {
		return "(bad)"
	}

	var sb strings.Builder
	sb.WriteString(prefixText(rec))
	sb.WriteString(rec.Mnemonic.String())

	var parts []string
	for i := 0; i < len(rec.Operands); i++ {
		op := rec.Operands[i]
		if op.Tag == decoder.OperandUnused || op.Visibility == decoder.VisibilityHidden {
			continue
		}
		parts = append(parts, formatOperand(rec, op))
	}
	if len(parts) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	return sb.String()
}

func prefixText(rec *decoder.InstructionRecord) string {
	var sb strings.Builder
	if rec.Attributes.Has(decoder.AttrHasLock) {
		sb.WriteString("lock ")
	}
	if rec.Attributes.Has(decoder.AttrHasRep) {
		sb.WriteString("rep ")
	}
	if rec.Attributes.Has(decoder.AttrHasRepe) {
		sb.WriteString("repe ")
	}
	if rec.Attributes.Has(decoder.AttrHasRepne) {
		sb.WriteString("repne ")
	}
	return sb.String()
}

func formatOperand(rec *decoder.InstructionRecord, op decoder.Operand) string {
	switch op.Tag {
	case decoder.OperandRegisterTag:
		return op.Register.Name
	case decoder.OperandMemoryTag:
		return formatMemory(rec, op)
	case decoder.OperandImmediateTag:
		if op.Immediate.Relative {
			target := rec.InstructionPointer() + uint64(rec.Length) + uint64(int64(op.Immediate.Value))
			return fmt.Sprintf("0x%x", target)
		}
		return fmt.Sprintf("0x%x", op.Immediate.Value)
	case decoder.OperandPointerTag:
		return fmt.Sprintf("0x%x:0x%x", op.Pointer.Segment, op.Pointer.Offset)
	default:
		return "?"
	}
}

func formatMemory(rec *decoder.InstructionRecord, op decoder.Operand) string {
	var sb strings.Builder
	sb.WriteString(sizeKeyword(op.Size))
	sb.WriteString(" [")
	wrote := false
	if op.Memory.HasBase {
		sb.WriteString(op.Memory.Base.Name)
		wrote = true
	}
	if op.Memory.HasIndex {
		if wrote {
			sb.WriteString(" + ")
		}
		sb.WriteString(op.Memory.Index.Name)
		if op.Memory.Scale > 1 {
			fmt.Fprintf(&sb, "*%d", op.Memory.Scale)
		}
		wrote = true
	}
	if op.Memory.HasDisp && (op.Memory.Displacement != 0 || !wrote) {
		if wrote {
			if op.Memory.Displacement < 0 {
				fmt.Fprintf(&sb, " - 0x%x", -op.Memory.Displacement)
			} else {
				fmt.Fprintf(&sb, " + 0x%x", op.Memory.Displacement)
			}
		} else {
			fmt.Fprintf(&sb, "0x%x", op.Memory.Displacement)
		}
	}
	sb.WriteString("]")
	return sb.String()
}

func sizeKeyword(size int) string {
	switch size {
	case 8:
		return "byte"
	case 16:
		return "word"
	case 32:
		return "dword"
	case 64:
		return "qword"
	case 128:
		return "xmmword"
	case 256:
		return "ymmword"
	case 512:
		return "zmmword"
	default:
		return "ptr"
	}
}

// ArchitecturalType maps a materialized Operand back onto the assembler
// side's OperandType vocabulary, for diagnostic/verbose CLI output that
// wants to show an operand's encoded "kind" rather than its rendered text.
func ArchitecturalType(op decoder.Operand) asm.OperandType {
	switch op.Tag {
	case decoder.OperandRegisterTag:
		switch op.Register.Type {
		case x86.Register8:
			return x86.OperandReg8
		case x86.Register16:
			return x86.OperandReg16
		case x86.Register32:
			return x86.OperandReg32
		case x86.Register64:
			return x86.OperandReg64
		case x86.RegisterXMM:
			return x86.OperandXMM
		case x86.RegisterYMM:
			return x86.OperandYMM
		case x86.RegisterZMM:
			return x86.OperandZMM
		case x86.RegisterMMX:
			return x86.OperandMMX
		case x86.RegisterMask:
			return x86.OperandMask
		case x86.RegisterBound:
			return x86.OperandBound
		case x86.RegisterFPU:
			return x86.OperandFPR
		case x86.RegisterControl:
			return x86.OperandCR
		case x86.RegisterDebug:
			return x86.OperandDR
		case x86.RegisterSegment:
			return x86.OperandSREG
		}
	case decoder.OperandMemoryTag:
		switch op.Size {
		case 8:
			return x86.OperandMem8
		case 16:
			return x86.OperandMem16
		case 32:
			return x86.OperandMem32
		case 64:
			return x86.OperandMem64
		}
		return x86.OperandMem
	case decoder.OperandImmediateTag:
		if op.Immediate.Relative {
			if op.Size == 8 {
				return x86.OperandRel8
			}
			return x86.OperandRel32
		}
		switch op.Size {
		case 8:
			return x86.OperandImm8
		case 16:
			return x86.OperandImm16
		case 32:
			return x86.OperandImm32
		case 64:
			return x86.OperandImm64
		}
	case decoder.OperandPointerTag:
		if op.Size == 32 {
			return x86.OperandPtr1616
		}
		return x86.OperandPtr1632
	}
	return x86.OperandNone
}
