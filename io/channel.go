// Package io provides output sinks for the LS-8 emulator.
// A sink receives each value printed by the CPU, in execution order.
package io

// Sink receives values emitted by the CPU.
type Sink interface {
	// Emit delivers a single value.
	Emit(value byte) error
}

// SinkFunc adapts an ordinary function to a Sink.
type SinkFunc func(value byte) error

// Emit calls fn(value).
func (fn SinkFunc) Emit(value byte) error {
	return fn(value)
}
