package cpu

// Flag register bits.
const (
	FL_BIT_EQUAL   = 0
	FL_BIT_GREATER = 1
	FL_BIT_LESS    = 2

	FL_EQUAL   = byte(1 << FL_BIT_EQUAL)   // a == b
	FL_GREATER = byte(1 << FL_BIT_GREATER) // a > b
	FL_LESS    = byte(1 << FL_BIT_LESS)    // a < b
)

// Compare returns the flags for a compared against b.
// Exactly one flag bit is set.
func Compare(a byte, b byte) (fl byte) {
	switch {
	case a == b:
		fl = FL_EQUAL
	case a > b:
		fl = FL_GREATER
	default:
		fl = FL_LESS
	}

	return
}

// Flag returns true if the flag bit at offset is set in fl.
func Flag(fl byte, offset uint) bool {
	return Bits(fl, offset, 1) == 1
}
