package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu faults
	ErrAddress            = errors.New(f("address fault"))
	ErrRegister           = errors.New(f("register fault"))
	ErrInstructionUnknown = errors.New(f("unknown instruction"))
	ErrAluOperation       = errors.New(f("unsupported alu operation"))
	ErrOperandCount       = errors.New(f("operand count mismatch"))
	ErrHalted             = errors.New(f("halted"))

	// Loader and assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramSize        = errors.New(f("program exceeds memory"))
)

// ErrAddressRange is a memory address outside of the addressable range.
type ErrAddressRange int

func (ea ErrAddressRange) Error() string {
	return f("address 0x%02x out of range", int(ea))
}

// ErrRegisterIndex is a register index outside of the register file.
type ErrRegisterIndex int

func (er ErrRegisterIndex) Error() string {
	return f("register index %d out of range", int(er))
}

// ErrFault is a fatal execution fault, and the location it occurred at.
type ErrFault struct {
	Pc     int    // Program counter of the faulting instruction.
	Opcode Opcode // Opcode fetched at Pc, if the fetch succeeded.
	Err    error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%02x opcode 0x%02x (%v) %v", err.Pc, byte(err.Opcode), err.Opcode.String(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' does not fit in a byte", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
