// Package cpu implements the LS-8 microprocessor, its loader, and its assembler.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7), a flags register (FL), an ALU, a comparator, and 256
// bytes of memory. Each instruction is an opcode byte followed by zero to
// two operand bytes; the two high bits of the opcode hold the operand count.
//
// Programs are supplied either as a memory image, as .ls8 text (one radix-2
// byte per line), or as mnemonic assembly with labels, equates, and
// compile-time expression evaluation.
package cpu
