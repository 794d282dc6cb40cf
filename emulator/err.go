package emulator

import (
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrRuntime is a fault raised while running a program, located by
// both its source line and the address of the faulting instruction.
// LineNo is zero when no source line generated that address.
type ErrRuntime struct {
	LineNo int
	Pc     int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%02x: %v", err.Pc, err.Err)
	}
	return f("line %d, pc 0x%02x: %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
