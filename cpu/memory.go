package cpu

import (
	"errors"
)

const (
	MEMORY_SIZE = 256 // Addressable bytes of memory.
)

// Memory is the fixed size byte store of the CPU.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Read returns the byte at address.
func (m *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(m.Data) {
		err = errors.Join(ErrAddress, ErrAddressRange(address))
		return
	}

	value = m.Data[address]
	return
}

// Write stores value at address.
func (m *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(m.Data) {
		err = errors.Join(ErrAddress, ErrAddressRange(address))
		return
	}

	m.Data[address] = value
	return
}

// Peek returns the byte at address, or zero if the address is out of range.
func (m *Memory) Peek(address int) (value byte) {
	value, _ = m.Read(address)
	return
}

// Reset zeroes all of memory.
func (m *Memory) Reset() {
	clear(m.Data[:])
}
