package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads .ls8 program text.
//
// Each line holds at most one radix-2 byte literal. Text following a '#'
// is a comment, and blank lines are ignored. Literals are stored at
// consecutive addresses starting at zero.
type Loader struct {
	Verbose bool // If set, verbosely logs the loaded bytes.
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line = strings.TrimSpace(strings.SplitN(text, "#", 2)[0])
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}

		var value uint64
		value, err = strconv.ParseUint(words[0], 2, 8)
		if err != nil {
			err = ErrParseNumber(words[0])
			return
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, address, value)
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Words:   words,
			Bytes:   []byte{byte(value)},
		})
		address++
	}

	err = scanner.Err()

	return
}
