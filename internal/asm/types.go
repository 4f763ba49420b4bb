package asm

// Prefix identifies a single-byte instruction prefix by its encoded value.
type Prefix byte

// InstructionEncoding identifies the prefix scheme used to encode an
// instruction (legacy opcode bytes vs. one of the escape-prefix forms).
type InstructionEncoding int
