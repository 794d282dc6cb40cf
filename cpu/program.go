package cpu

import (
	"errors"
	"iter"
)

// Line represents a line of loaded or assembled source with the bytes it generated.
type Line struct {
	LineNo    int
	Address   int
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is a loaded program listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the byte at address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, line := range prog.Lines {
		if address >= line.Address && address < line.Address+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: address - line.Address,
			}
			break
		}
	}

	return
}

// Bytes iterates over every address and generated byte of the program.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the full memory image of the program.
// Addresses not generated by the program are zero.
func (prog *Program) Binary() (image []byte, err error) {
	image = make([]byte, MEMORY_SIZE)
	for address, value := range prog.Bytes() {
		if address < 0 || address >= MEMORY_SIZE {
			err = errors.Join(ErrAddress, ErrProgramSize, ErrAddressRange(address))
			image = nil
			return
		}
		image[address] = value
	}

	return
}

// Size returns the address following the last generated byte.
func (prog *Program) Size() (size int) {
	for address := range prog.Bytes() {
		size = max(size, address+1)
	}

	return
}
