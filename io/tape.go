package io

import (
	"fmt"
	"io"
)

// Tape writes each emitted value as a decimal line to an io.Writer.
type Tape struct {
	Output io.Writer

	Count int // Values written since the last Rewind.
}

var _ Sink = (*Tape)(nil)

// Rewind resets the written value count.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Emit writes value to the output stream.
func (tc *Tape) Emit(value byte) (err error) {
	if tc.Output == nil {
		err = ErrOutputMissing
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Count++
	return
}
