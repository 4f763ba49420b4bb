// Package decoder implements a length-disassembler and semantic decoder
// for the x86/x86-64 instruction set: given a byte stream and a machine
// mode it walks a static opcode tree to a matched definition, then
// resolves prefixes, ModR/M/SIB/displacement/immediate bytes, AVX
// extension metadata and operands into a self-contained InstructionRecord.
package decoder

import (
	"iter"

	"github.com/keurnel/x86decode/internal/decoder/isaset"
)

// Config controls decode-time behavior that is not itself part of the
// instruction stream: which vendor's opcode preference applies where
// Intel and AMD disagree, and an optional floor below which a matched
// definition's isa_set is rejected outright. Base is carried but not read:
// DecodeNext and Sweep take the instruction pointer from their ip argument.
type Config struct {
	Vendor VendorPreference
	Base   uint64
	MinISA *isaset.Floor
}

// Decoder decodes a byte stream against a fixed opcode tree and
// definition table. A Decoder carries no mutable per-call state beyond
// its Config, so a single instance is safe to reuse or share.
type Decoder struct {
	root   *Node
	defs   []InstructionDefinition
	mode   MachineMode
	config Config
}

// NewDecoder builds a Decoder over a static opcode tree and definition
// table for a fixed machine mode. The tree/definitions are supplied by
// the caller (normally the tables package) rather than imported directly,
// so this package carries no dependency on how the tree data is built.
func NewDecoder(root *Node, defs []InstructionDefinition, mode MachineMode) *Decoder {
	return &Decoder{root: root, defs: defs, mode: mode}
}

// Configure replaces the Decoder's Config.
func (d *Decoder) Configure(cfg Config) { d.config = cfg }

// DecodeNext decodes a single instruction starting at the front of
// `bytes`, returning the instruction record, the number of bytes it
// consumed, and a Status. On a decode failure the §4.10 recovery rule
// applies: a synthetic one-byte record is reported (Length 1, RawBytes
// holding only the first input byte, the failing Status), so a caller
// resumes at the byte after the first instruction byte and keeps scanning.
func (d *Decoder) DecodeNext(bytes []byte, ip uint64) (*InstructionRecord, int, Status) {
	if len(bytes) == 0 {
		return nil, 0, StatusNoMoreData
	}

	rec := &InstructionRecord{MachineMode: d.mode, instructionPointer: ip}
	cur := NewCursor(bytes)
	st := &decodeState{cur: cur, rec: rec, mode: d.mode}

	status := d.decodeOne(st)
	if status == StatusSuccess {
		rec.Status = StatusSuccess
		return rec, rec.Length, StatusSuccess
	}

	// Recovery: rewind to one byte past the instruction's first byte and
	// report a synthetic single-byte record so callers scanning a stream
	// resynchronize instead of stalling on the failing instruction.
	rec.Status = status
	rec.Length = 1
	rec.RawBytes = bytes[:1]
	rec.Mnemonic = 0
	return rec, 1, status
}

func (d *Decoder) decodeOne(st *decodeState) Status {
	ps, status := collectPrefixes(st.cur, st.rec, st.mode)
	if status != StatusSuccess {
		return status
	}
	st.ps = ps
	if ps.RexApplied {
		st.raw.HasREX = true
		st.raw.REXByte = ps.RexByte
		st.raw.W = ps.W
		st.raw.R = ps.R
		st.raw.X = ps.X
		st.raw.B = ps.B
	}

	defn, status := walk(d.root, d.defs, st, d.config.Vendor)
	if status != StatusSuccess {
		return status
	}
	if d.config.MinISA != nil && !d.config.MinISA.Allows(defn.ISASet) {
		return StatusBelowISAFloor
	}

	st.resolveAddressSizeOnce()
	st.finalizeOperandSize(defn.SizePolicy)
	if !st.escaped && st.rec.Encoding != Encoding3DNOW {
		st.rec.Encoding = EncodingLegacy
	}
	st.rec.Mnemonic = defn.Mnemonic
	st.rec.Prefixes = st.raw

	if status := st.readImmediates(defn); status != StatusSuccess {
		return status
	}
	if status := materializeOperands(st, defn); status != StatusSuccess {
		return status
	}
	if status := finalizeAttributes(st, defn); status != StatusSuccess {
		return status
	}

	return StatusSuccess
}

// Sweep decodes a full byte stream as a sequence of instructions starting
// at base address ip, yielding one InstructionRecord per iteration until
// the input is exhausted. A decode failure yields the synthetic one-byte
// recovery record (per DecodeNext) and sweeping continues from the next
// byte, so a single malformed instruction never halts the scan.
func (d *Decoder) Sweep(bytes []byte, ip uint64) iter.Seq[*InstructionRecord] {
	return func(yield func(*InstructionRecord) bool) {
		offset := 0
		for offset < len(bytes) {
			rec, n, status := d.DecodeNext(bytes[offset:], ip+uint64(offset))
			if status == StatusNoMoreData {
				return
			}
			if n <= 0 {
				n = 1
			}
			offset += n
			if !yield(rec) {
				return
			}
		}
	}
}
