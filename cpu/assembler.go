// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// mnemonicMap maps instruction names to opcodes.
var mnemonicMap = map[string]Opcode{
	"hlt": OP_HLT,
	"prn": OP_PRN,
	"jmp": OP_JMP,
	"jeq": OP_JEQ,
	"jne": OP_JNE,
	"ldi": OP_LDI,
	"add": OP_ADD,
	"cmp": OP_CMP,
}

var (
	reLabel     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reRegister  = regexp.MustCompile(`^[rR][0-7]$`)
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for LS-8 mnemonics.
//
//	; comment
//	.equ NAME VALUE      ; textual substitution of NAME by VALUE
//	label:               ; address of the next generated byte
//	ldi r0,8             ; one instruction per line
//	ldi r1,label         ; labels may be used as ldi immediates
//	.byte 1 2 3          ; raw data
//	ldi r2,$(label + 1)  ; compile-time starlark expression
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the byte value of a numeric word.
// Negative values down to -128 are stored in two's complement.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = ErrParseValue(word)
		return
	}

	value = byte(v64)
	return
}

// registerOf returns the register operand for a register name.
func (asm *Assembler) registerOf(word string) (operand byte, err error) {
	if !reRegister.MatchString(word) {
		err = ErrRegisterInvalid
		return
	}

	operand = word[1] - '0'
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expandCharacters replaces 'x' character literals with their decimal value.
func (asm *Assembler) expandCharacters(line string) string {
	return reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseWords generates the bytes for a line of words.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	var data []byte
	var label string

	name := strings.ToLower(words[0])
	args := words[1:]

	switch name {
	case ".byte":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			var value byte
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			data = append(data, value)
		}
	default:
		op, ok := mnemonicMap[name]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		if len(args) < op.OperandCount() {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > op.OperandCount() {
			err = ErrOpcodeExtraArgs
			return
		}
		code := Code{Opcode: op}
		for n, arg := range args {
			var value byte
			if op == OP_LDI && n == 1 {
				value, err = asm.valueOf(arg)
				if err != nil && reLabel.MatchString(arg) {
					// Linked after the final pass.
					label = arg
					err = nil
				}
			} else {
				value, err = asm.registerOf(arg)
			}
			if err != nil {
				return
			}
			code.Operands = append(code.Operands, value)
		}
		data = code.Bytes()
	}

	asm.Line = append(asm.Line, Line{
		LineNo:    lineno,
		Address:   asm.currentAddress(),
		Words:     slices.Clone(words),
		Bytes:     data,
		LinkLabel: label,
	})

	return
}

// currentAddress gets the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Line) == 0 {
		return 0
	}

	last := asm.Line[len(asm.Line)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		// Character literals may hold a ';', so expand them first.
		line = asm.expandCharacters(text)
		line = strings.TrimSpace(strings.SplitN(line, ";", 2)[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}

		if asm.currentAddress() > MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		op := &asm.Line[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		address, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		if address > 0xff {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = errors.Join(ErrAddress, ErrAddressRange(address))
			return
		}
		op.Bytes[len(op.Bytes)-1] = byte(address)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}
