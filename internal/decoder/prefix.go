package decoder

import x86 "github.com/keurnel/x86decode/architecture/x86_64"

// PrefixState is the result of the prefix collection pass (§4.2): which
// legacy prefixes were seen, the last-of-group bytes that matter for
// decoding, and the REX byte if one was both present and still eligible to
// apply once the loop stopped.
type PrefixState struct {
	LockCount  int
	RepCount   int
	RepneCount int

	LastSegment byte // 0 = none seen

	HasOperandSizeOverride bool
	HasAddressSizeOverride bool

	// MandatoryCandidate is one of {0, 0x66, 0xF2, 0xF3}: the prefix byte
	// eligible to be consumed as a two/three-byte opcode's mandatory prefix.
	MandatoryCandidate byte

	RexEncountered bool // a REX byte was seen anywhere in the prefix run
	RexApplied     bool // that REX byte was the last prefix byte matched
	RexByte        byte

	W, R, X, B bool
}

func isSegmentPrefix(b byte) bool {
	switch b {
	case byte(x86.PrefixCS), byte(x86.PrefixSS), byte(x86.PrefixDS),
		byte(x86.PrefixES), byte(x86.PrefixFS), byte(x86.PrefixGS):
		return true
	}
	return false
}

func isREXByte(b byte, mode MachineMode) bool {
	return mode == Mode64 && b >= 0x40 && b <= 0x4F
}

// collectPrefixes scans legacy prefix bytes per §4.2 until a non-prefix byte
// is peeked, without consuming it.
func collectPrefixes(cur *Cursor, rec *InstructionRecord, mode MachineMode) (PrefixState, Status) {
	var ps PrefixState

	for {
		b, status := cur.Peek(rec)
		if status != StatusSuccess {
			// No more bytes to classify; stop. The caller decides whether
			// this is fatal based on whether anything was consumed yet.
			if rec.Length == 0 {
				return ps, status
			}
			return ps, StatusSuccess
		}

		switch {
		case b == byte(x86.PrefixLock):
			ps.LockCount++
		case b == byte(x86.PrefixRepNE):
			ps.RepneCount++
			if ps.MandatoryCandidate != 0x66 {
				ps.MandatoryCandidate = 0xF2
			}
		case b == byte(x86.PrefixRep):
			ps.RepCount++
			if ps.MandatoryCandidate != 0x66 {
				ps.MandatoryCandidate = 0xF3
			}
		case isSegmentPrefix(b):
			ps.LastSegment = b
		case b == byte(x86.PrefixOperandSize):
			ps.HasOperandSizeOverride = true
			ps.MandatoryCandidate = 0x66
		case b == byte(x86.PrefixAddressSize):
			ps.HasAddressSizeOverride = true
		case isREXByte(b, mode):
			ps.RexEncountered = true
			ps.RexApplied = true
			ps.RexByte = b
			ps.W = b&0x08 != 0
			ps.R = b&0x04 != 0
			ps.X = b&0x02 != 0
			ps.B = b&0x01 != 0
		default:
			return ps, StatusSuccess
		}

		if !isREXByte(b, mode) && ps.RexEncountered {
			// A non-REX legacy prefix followed the REX byte: per the
			// stricter reading, REX is no longer the last legacy prefix
			// and is not applied to opcode extension.
			ps.RexApplied = false
		}

		if _, status := cur.Next(rec); status != StatusSuccess {
			return ps, status
		}
	}
}
