package cpu

// CodeAluOp is an ALU operation type.
type CodeAluOp int

// ALU operations do not modify FL.
//
//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
)

// Alu performs the requested ALU operation, and returns the output value.
// Results wrap modulo 256.
func Alu(op CodeAluOp, a byte, b byte) (output byte, err error) {
	switch op {
	case ALU_OP_ADD:
		output = a + b
	default:
		err = ErrAluOperation
	}

	return
}
