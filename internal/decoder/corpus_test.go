package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x86 "github.com/keurnel/x86decode/architecture/x86_64"
	"github.com/keurnel/x86decode/internal/decoder"
	"github.com/keurnel/x86decode/internal/decoder/mnemonic"
	"github.com/keurnel/x86decode/internal/decoder/tables"
)

// corpus covers the concrete decode scenarios: one instruction per
// prefix/escape/size family the bundled tables wire, checked field by field
// against a decoded InstructionRecord. assert.Equal on the record's structs
// reads clearer here than a hand-rolled deep comparison would.
func TestCorpus(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		mode  decoder.MachineMode
		check func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status)
	}{
		{
			name:  "NOP",
			bytes: []byte{0x90},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				assert.True(t, status.Ok())
				assert.Equal(t, 1, n)
				assert.Equal(t, mnemonic.NOP, rec.Mnemonic)
				assert.Equal(t, decoder.OperandUnused, rec.Operands[0].Tag)
			},
		},
		{
			name:  "PAUSE (F3 90)",
			bytes: []byte{0xF3, 0x90},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				assert.True(t, status.Ok())
				assert.Equal(t, 2, n)
				assert.Equal(t, mnemonic.PAUSE, rec.Mnemonic)
				assert.False(t, rec.Attributes.Has(decoder.AttrHasRep),
					"F3 NOP aliases to PAUSE and should not carry HAS_REP")
			},
		},
		{
			name:  "MOV RAX,RBX (REX.W 89 /r)",
			bytes: []byte{0x48, 0x89, 0xD8},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, 3, n)
				assert.Equal(t, mnemonic.MOV, rec.Mnemonic)
				assert.Equal(t, 64, rec.OperandSize)
				assert.True(t, rec.Prefixes.W)

				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[0].Tag)
				assert.Equal(t, x86.RAX, rec.Operands[0].Register)
				assert.Equal(t, decoder.ActionW, rec.Operands[0].Action)

				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[1].Tag)
				assert.Equal(t, x86.RBX, rec.Operands[1].Register)
				assert.Equal(t, decoder.ActionR, rec.Operands[1].Action)
			},
		},
		{
			name:  "MOV EAX,[disp32] (67 8B /r, address-size override)",
			bytes: []byte{0x67, 0x8B, 0x04, 0x25, 0x78, 0x56, 0x34, 0x12},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, 8, n)
				assert.Equal(t, mnemonic.MOV, rec.Mnemonic)
				assert.Equal(t, 32, rec.AddressSize)
				assert.True(t, rec.Attributes.Has(decoder.AttrHasAddressSize))

				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[0].Tag)
				assert.Equal(t, x86.EAX, rec.Operands[0].Register,
					"default operand size in long mode without REX.W is 32 bits")

				require.Equal(t, decoder.OperandMemoryTag, rec.Operands[1].Tag)
				mem := rec.Operands[1].Memory
				assert.False(t, mem.HasBase)
				assert.False(t, mem.HasIndex)
				assert.True(t, mem.HasDisp)
				assert.EqualValues(t, 0x12345678, mem.Displacement)
			},
		},
		{
			name:  "VZEROUPPER (C5 F8 77)",
			bytes: []byte{0xC5, 0xF8, 0x77},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, 3, n)
				assert.Equal(t, mnemonic.VZEROUPPER, rec.Mnemonic)
				assert.Equal(t, decoder.EncodingVEX, rec.Encoding)
				assert.Equal(t, decoder.Map0F, rec.OpcodeMap)
				require.NotNil(t, rec.AVX)
				assert.Equal(t, 128, rec.AVX.VectorLength,
					"C5 F8 77 carries VEX.L=0, the 128-bit VZEROUPPER form")
			},
		},
		{
			name:  "VADDPS ZMM0,ZMM0,ZMM1 (62 F1 7C 48 58 C1)",
			bytes: []byte{0x62, 0xF1, 0x7C, 0x48, 0x58, 0xC1},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, mnemonic.VADDPS, rec.Mnemonic)
				assert.Equal(t, decoder.EncodingEVEX, rec.Encoding)
				require.NotNil(t, rec.AVX)
				assert.Equal(t, 512, rec.AVX.VectorLength)

				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[0].Tag)
				assert.Equal(t, x86.ZMM0, rec.Operands[0].Register)
				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[1].Tag)
				assert.Equal(t, x86.ZMM0, rec.Operands[1].Register)
				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[2].Tag)
				assert.Equal(t, x86.ZMM1, rec.Operands[2].Register)
			},
		},
		{
			name:  "JMP rel8 (EB 05)",
			bytes: []byte{0xEB, 0x05},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, 2, n)
				assert.Equal(t, mnemonic.JMP_REL8, rec.Mnemonic)
				assert.True(t, rec.Attributes.Has(decoder.AttrIsRelative))

				require.Equal(t, decoder.OperandImmediateTag, rec.Operands[0].Tag)
				assert.EqualValues(t, 0x05, rec.Operands[0].Immediate.Value)
				assert.True(t, rec.Operands[0].Immediate.Relative)
				assert.Equal(t, 8, rec.Operands[0].Size)
			},
		},
		{
			name:  "FF alone is truncated and fails to decode",
			bytes: []byte{0xFF},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				assert.False(t, status.Ok())
				assert.Equal(t, 1, n)
				assert.Equal(t, 1, rec.Length)
			},
		},
		{
			name:  "PFRCP MM1,MM0 (0F 0F C8 BF)",
			bytes: []byte{0x0F, 0x0F, 0xC8, 0xBF},
			mode:  decoder.Mode64,
			check: func(t *testing.T, rec *decoder.InstructionRecord, n int, status decoder.Status) {
				require.True(t, status.Ok())
				assert.Equal(t, 4, n)
				assert.Equal(t, mnemonic.PFRCP, rec.Mnemonic)
				assert.Equal(t, decoder.Map0F0F, rec.OpcodeMap)
				assert.Equal(t, byte(0xBF), rec.Opcode)

				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[0].Tag)
				assert.Equal(t, x86.MM1, rec.Operands[0].Register)
				require.Equal(t, decoder.OperandRegisterTag, rec.Operands[1].Tag)
				assert.Equal(t, x86.MM0, rec.Operands[1].Register)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decoder.NewDecoder(tables.Root, tables.Definitions, tt.mode)
			rec, n, status := d.DecodeNext(tt.bytes, 0)
			require.NotNil(t, rec)
			tt.check(t, rec, n, status)
		})
	}
}
