package decoder

// maxInstructionLength is the hard 15-byte cap every x86/x86-64 instruction
// obeys, regardless of how many prefixes or escape bytes it carries.
const maxInstructionLength = 15

// Cursor wraps a caller-owned byte slice plus an offset. It does no
// buffering and no allocation beyond appending consumed bytes onto the
// record being built.
type Cursor struct {
	bytes []byte
	pos   int
}

// NewCursor constructs a cursor over a caller-owned byte slice, starting at
// offset zero. The slice is never copied or retained beyond the call.
func NewCursor(b []byte) *Cursor {
	return &Cursor{bytes: b}
}

// Position returns the cursor's current offset into the underlying slice.
func (c *Cursor) Position() int { return c.pos }

// RewindTo resets the cursor to an absolute offset, used by the
// error-recovery path to back up to start+1 after a failed decode.
func (c *Cursor) RewindTo(offset int) { c.pos = offset }

// Peek returns the next byte without advancing the cursor.
func (c *Cursor) Peek(rec *InstructionRecord) (byte, Status) {
	if rec.Length >= maxInstructionLength {
		return 0, StatusInstructionTooLong
	}
	if c.pos >= len(c.bytes) {
		return 0, StatusEndOfInput
	}
	return c.bytes[c.pos], StatusSuccess
}

// Next consumes the next byte, appending it to rec.RawBytes and advancing
// both the cursor and rec.Length.
func (c *Cursor) Next(rec *InstructionRecord) (byte, Status) {
	b, status := c.Peek(rec)
	if status != StatusSuccess {
		return 0, status
	}
	c.pos++
	rec.RawBytes = append(rec.RawBytes, b)
	rec.Length++
	return b, StatusSuccess
}

// PeekAhead returns the byte `ahead` positions past the cursor (ahead=0 is
// equivalent to Peek) without consuming anything and without counting
// against the instruction-length cap, used by the escape-prefix gate to
// look at the byte following a candidate C4/C5/62/8F trigger.
func (c *Cursor) PeekAhead(ahead int) (byte, Status) {
	i := c.pos + ahead
	if i >= len(c.bytes) {
		return 0, StatusEndOfInput
	}
	return c.bytes[i], StatusSuccess
}

// NextLE reads n bytes little-endian through Next, each counted against the
// 15-byte cap individually.
func (c *Cursor) NextLE(rec *InstructionRecord, n int) (uint64, Status) {
	var v uint64
	for i := 0; i < n; i++ {
		b, status := c.Next(rec)
		if status != StatusSuccess {
			return 0, status
		}
		v |= uint64(b) << (8 * uint(i))
	}
	return v, StatusSuccess
}
