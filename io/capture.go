package io

// Capture records emitted values in memory.
type Capture struct {
	Values []byte
}

var _ Sink = (*Capture)(nil)

// Emit appends value to the captured values.
func (cc *Capture) Emit(value byte) error {
	cc.Values = append(cc.Values, value)
	return nil
}

// Rewind discards all captured values.
func (cc *Capture) Rewind() {
	cc.Values = cc.Values[:0]
}
