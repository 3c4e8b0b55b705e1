// Package cpu implements the microprocessor and assembler for the MicroSim system.
//
// The machine consists of a flat 4096 byte memory bank, eight 8-bit
// general-purpose registers (r0-r7, with r0 hard-wired to zero), a 12-bit
// program counter and stack pointer, a 16-bit instruction register, and a
// single condition flag. Every instruction is a 16-bit word stored high byte
// first on an even address. The stack lives in the same memory bank and
// grows downward from the stack pointer.
//
// The assembler translates an indentation-sensitive source text into a
// Program in two passes: the first pass lays out addresses and encodes what
// it can, the second pass links deferred label and variable references.
// Operands may use $(...) compile-time expressions.
package cpu
