package diagnostics

import "fmt"

// Position identifies a spot in a decoded byte stream. It is a value
// type — safe to copy and compare.
type Position struct {
	offset uint64 // byte offset of the instruction's first byte.
	index  int    // 0-based ordinal of the instruction within the sweep.
}

// At creates a Position from a byte offset and the instruction's ordinal
// within the sweep that produced it.
func At(offset uint64, index int) Position {
	return Position{offset: offset, index: index}
}

// Offset returns the byte offset the position refers to.
func (p Position) Offset() uint64 { return p.offset }

// Index returns the 0-based instruction ordinal.
func (p Position) Index() int { return p.index }

// String returns a human-readable representation of the position, e.g.
// "insn#3@0x1a".
func (p Position) String() string {
	return fmt.Sprintf("insn#%d@0x%x", p.index, p.offset)
}
