package cpu

import (
	"errors"
)

const (
	REGISTER_COUNT = 8 // General purpose registers r0-r7.
)

// RegisterFile is the general purpose register bank.
type RegisterFile struct {
	Data [REGISTER_COUNT]byte
}

// Get returns the value of register index.
func (rf *RegisterFile) Get(index int) (value byte, err error) {
	if index < 0 || index >= len(rf.Data) {
		err = errors.Join(ErrRegister, ErrRegisterIndex(index))
		return
	}

	value = rf.Data[index]
	return
}

// Set sets register index to value.
func (rf *RegisterFile) Set(index int, value byte) (err error) {
	if index < 0 || index >= len(rf.Data) {
		err = errors.Join(ErrRegister, ErrRegisterIndex(index))
		return
	}

	rf.Data[index] = value
	return
}

// Reset zeroes all registers.
func (rf *RegisterFile) Reset() {
	clear(rf.Data[:])
}
