package decoder

import "fmt"

// Status is the closed, enumerable set of outcomes a decode call can report.
// It is a plain value, not a wrapped error chain: the decoder's failures are
// all pre-enumerated rather than arising from open-ended I/O, so a flat byte
// enum (with a String method) carries everything a caller needs.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusNoMoreData
	StatusEndOfInput
	StatusInstructionTooLong
	StatusDecodingError
	StatusIllegalRex
	StatusIllegalLegacyPrefix
	StatusInvalidMap
	StatusMalformedEVEX
	StatusMalformedMVEX
	StatusBadRegister
	StatusInvalidVSIB
	StatusInvalidMask
	StatusBelowISAFloor
)

var statusNames = [...]string{
	StatusSuccess:            "success",
	StatusNoMoreData:         "no more data",
	StatusEndOfInput:         "end of input",
	StatusInstructionTooLong: "instruction too long",
	StatusDecodingError:      "decoding error",
	StatusIllegalRex:         "illegal rex",
	StatusIllegalLegacyPrefix: "illegal legacy prefix",
	StatusInvalidMap:         "invalid opcode map",
	StatusMalformedEVEX:      "malformed evex",
	StatusMalformedMVEX:      "malformed mvex",
	StatusBadRegister:        "bad register",
	StatusInvalidVSIB:        "invalid vsib",
	StatusInvalidMask:        "invalid mask",
	StatusBelowISAFloor:      "below minimum isa floor",
}

func (s Status) String() string {
	if int(s) >= len(statusNames) {
		return "unknown status"
	}
	return statusNames[s]
}

// Ok reports whether the status represents a successful decode.
func (s Status) Ok() bool { return s == StatusSuccess }

// Fatal reports whether the call should not produce any instruction record
// at all, synthetic or otherwise (only the very first byte failing to read
// meets this bar, per the recovery semantics in §4.10 of the decode spec).
func (s Status) Fatal() bool { return s == StatusNoMoreData }

// DecodeError pairs a Status with the position it occurred at, in the same
// register as a plain diagnostic value rather than a wrapped Go error.
type DecodeError struct {
	Status Status
	Offset uint64
	Detail string
}

func (e *DecodeError) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset 0x%x", e.Status, e.Offset)
	}
	return fmt.Sprintf("%s at offset 0x%x: %s", e.Status, e.Offset, e.Detail)
}

// Error implements the error interface so DecodeError composes with
// fmt.Errorf("...: %w", err) at the CLI boundary.
func (e *DecodeError) Error() string { return e.String() }
