// Package diagnostics provides a passive, append-only data structure that
// accumulates severity-tagged entries (errors, warnings, info, trace) as a
// decode sweep progresses. It does not perform I/O or formatting — a
// separate renderer (the CLI's sweep command) consumes the entries to
// produce output.
//
// This is the decoder side's counterpart to the teacher assembler's
// debugcontext: the assembler keyed entries by source file/line/column
// because its pipeline ran over text; a decode sweep has no source text,
// only a byte stream, so entries here are keyed by byte offset and
// instruction index instead.
package diagnostics
