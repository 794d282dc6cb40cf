package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// Opcode is the first byte of an instruction.
//
// The layout is AABCDDDD, where AA is the operand count, B marks an ALU
// operation, C marks an instruction that may set the PC, and DDDD is the
// instruction identifier.
type Opcode byte

const (
	OP_HLT = Opcode(0b00000001) // hlt
	OP_PRN = Opcode(0b01000111) // prn
	OP_JMP = Opcode(0b01010100) // jmp
	OP_JEQ = Opcode(0b01010101) // jeq
	OP_JNE = Opcode(0b01010110) // jne
	OP_LDI = Opcode(0b10000010) // ldi
	OP_ADD = Opcode(0b10100000) // add
	OP_CMP = Opcode(0b10100111) // cmp
)

// Opcode bit fields, as (offset, width) pairs.
const (
	OPCODE_OPERANDS_OFFSET = 6
	OPCODE_OPERANDS_WIDTH  = 2
	OPCODE_ALU_OFFSET      = 5
	OPCODE_SETS_PC_OFFSET  = 4

	OPERAND_REGISTER_OFFSET = 0
	OPERAND_REGISTER_WIDTH  = 3

	OPERANDS_MAX = 2 // No instruction takes more operands than this.
)

// opcodeName is the closed instruction set.
var opcodeName = map[Opcode]string{
	OP_HLT: "hlt",
	OP_PRN: "prn",
	OP_JMP: "jmp",
	OP_JEQ: "jeq",
	OP_JNE: "jne",
	OP_LDI: "ldi",
	OP_ADD: "add",
	OP_CMP: "cmp",
}

// Bits extracts width bits of value, starting at bit offset.
func Bits(value byte, offset uint, width uint) byte {
	return byte((uint(value) >> offset) & ((1 << width) - 1))
}

// OperandCount returns the number of operand bytes following the opcode.
func (op Opcode) OperandCount() int {
	return int(Bits(byte(op), OPCODE_OPERANDS_OFFSET, OPCODE_OPERANDS_WIDTH))
}

// AdvanceWidth returns the number of bytes occupied by the instruction.
func (op Opcode) AdvanceWidth() int {
	return op.OperandCount() + 1
}

// IsAlu returns true if the opcode is an ALU operation.
func (op Opcode) IsAlu() bool {
	return Bits(byte(op), OPCODE_ALU_OFFSET, 1) == 1
}

// SetsPc returns true if the opcode may redirect the program counter.
func (op Opcode) SetsPc() bool {
	return Bits(byte(op), OPCODE_SETS_PC_OFFSET, 1) == 1
}

// Known returns true if the opcode is part of the instruction set.
func (op Opcode) Known() bool {
	_, ok := opcodeName[op]
	return ok && op.OperandCount() <= OPERANDS_MAX
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("Opcode(0b%08b)", byte(op))
	}
	return name
}

// RegisterOf decodes a register index operand.
// No instruction in this set carries flags alongside the register index,
// so the bits above the index field must be clear.
func RegisterOf(operand byte) (index int, err error) {
	index = int(Bits(operand, OPERAND_REGISTER_OFFSET, OPERAND_REGISTER_WIDTH))
	if Bits(operand, OPERAND_REGISTER_WIDTH, 8-OPERAND_REGISTER_WIDTH) != 0 {
		err = errors.Join(ErrRegister, ErrRegisterIndex(operand))
	}
	return
}

// Code is a single decoded instruction.
type Code struct {
	Opcode   Opcode
	Operands []byte
}

// Width returns the number of bytes occupied by the instruction.
func (code Code) Width() int {
	return code.Opcode.AdvanceWidth()
}

// Bytes returns the encoded instruction.
func (code Code) Bytes() (data []byte) {
	data = append(data, byte(code.Opcode))
	data = append(data, code.Operands...)
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if len(code.Operands) == 0 {
		return code.Opcode.String()
	}

	args := make([]string, len(code.Operands))
	for n, operand := range code.Operands {
		if code.Opcode == OP_LDI && n == 1 {
			args[n] = fmt.Sprintf("%d", operand)
		} else {
			args[n] = fmt.Sprintf("r%d", operand)
		}
	}

	return code.Opcode.String() + " " + strings.Join(args, ",")
}
