// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// Exit codes for each fault kind.
const (
	EXIT_OK          = 0
	EXIT_USAGE       = 1
	EXIT_ADDRESS     = 2
	EXIT_REGISTER    = 3
	EXIT_INSTRUCTION = 4
	EXIT_ALU         = 5
)

// defineFlag collects repeated -D NAME=VALUE flags.
type defineFlag map[string]string

func (df defineFlag) String() string {
	var defs []string
	for key, value := range df {
		defs = append(defs, key+"="+value)
	}
	return strings.Join(defs, ",")
}

func (df defineFlag) Set(text string) error {
	key, value, ok := strings.Cut(text, "=")
	if !ok || len(key) == 0 {
		return fmt.Errorf("%q is not NAME=VALUE", text)
	}
	df[key] = value
	return nil
}

// exitCode maps a runtime fault to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, cpu.ErrAddress):
		return EXIT_ADDRESS
	case errors.Is(err, cpu.ErrRegister):
		return EXIT_REGISTER
	case errors.Is(err, cpu.ErrInstructionUnknown):
		return EXIT_INSTRUCTION
	case errors.Is(err, cpu.ErrAluOperation):
		return EXIT_ALU
	default:
		return EXIT_USAGE
	}
}

func main() {
	var assemble bool
	var output string
	var verbose bool
	defines := defineFlag{}

	flag.BoolVar(&assemble, "a", false, "Assemble mnemonic input, regardless of file extension")
	flag.StringVar(&output, "o", "-", "Output for printed values")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(defines, "D", "Predefine an assembler equate, as NAME=VALUE")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Printf("usage: %v [options] program.ls8|program.asm", os.Args[0])
		flag.PrintDefaults()
		os.Exit(EXIT_USAGE)
	}

	source := flag.Arg(0)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	if assemble || filepath.Ext(source) == ".asm" {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		for key, value := range defines {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		emu.Program, err = ld.Parse(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	err = emu.Run()
	if err != nil {
		log.Printf("%v: %v", source, err)
		if verbose {
			log.Print(emu.Cpu.String())
		}
		os.Exit(exitCode(err))
	}
}
