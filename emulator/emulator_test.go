package emulator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(0, emu.LineNo())
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("0", defines["PROGRAM_START"])
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("8", defines["REGISTER_COUNT"])
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	logged := &bytes.Buffer{}
	log.SetOutput(logged)
	defer log.SetOutput(os.Stderr)

	emu := NewEmulator()
	emu.Verbose = true

	output := doRunSingle(emu, []string{
		"ldi r0,8",
		"prn r0",
		"hlt",
	}, t)

	assert.Equal("8\n", output)
	assert.Contains(logged.String(), "emulator: loaded 6 bytes")
	assert.Contains(logged.String(), "TRACE: pc: 00")
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output string) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Reset()
	assert.NoError(err)

	for n, line := range prog.Lines {
		if len(line.Bytes) == 0 {
			continue
		}
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		assert.Equal(line.Address, emu.Pc(), here)
		done, err := emu.Tick()
		assert.NoError(err, here)
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.Equal(n == len(prog.Lines)-1, done, here)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	output = tape_output.String()
	return
}

func TestEmulator_Straight(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	output := doRunSingle(emu, []string{
		"ldi r0,5",
		"ldi r1,10",
		"add r0,r1",
		"prn r0",
		"prn r1",
		"hlt",
	}, t)

	assert.Equal("15\n10\n", output)
	assert.Equal(6, emu.Ticks())
	assert.Equal(2, emu.Tape.Count)
}

func TestEmulator_Compare(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	output := doRunSingle(emu, []string{
		"ldi r0,3",
		"ldi r1,4",
		"cmp r0,r1",
		"ldi r2,$(FL_LESS)",
		"prn r2",
		"hlt",
	}, t)

	assert.Equal("4\n", output)
	assert.Equal(cpu.FL_LESS, emu.Fl)
}

func TestEmulator_Branch(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	asm := &cpu.Assembler{}
	asm.Predefine("LIMIT", "4")
	inf, err := os.Open("testdata/count.asm")
	if err != nil {
		t.Fatal(err)
	}
	defer inf.Close()

	emu.Program, err = asm.Parse(inf)
	assert.NoError(err)

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
	assert.Equal("1\n2\n3\n4\n", tape_output.String())
	assert.True(emu.Halted)

	// Reset rewinds to a runnable state.
	tape_output.Reset()
	assert.NoError(emu.Reset())
	assert.False(emu.Halted)
	assert.Equal(0, emu.Tape.Count)
	assert.NoError(emu.Run())
	assert.Equal("1\n2\n3\n4\n", tape_output.String())
}

func TestEmulator_Loader(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	inf, err := os.Open("testdata/print8.ls8")
	if err != nil {
		t.Fatal(err)
	}
	defer inf.Close()

	ld := &cpu.Loader{}
	emu.Program, err = ld.Parse(inf)
	assert.NoError(err)

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	assert.NoError(emu.Reset())
	assert.Equal(5, emu.LineNo())

	assert.NoError(emu.Run())
	assert.Equal("8\n", tape_output.String())

	// Still halted.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"unknown", []string{"ldi r0,1", ".byte 0"}, 2, cpu.ErrInstructionUnknown},
		{"register", []string{"ldi r0,1", ".byte 0b01000111 9", "hlt"}, 2, cpu.ErrRegister},
		{"runaway", []string{"ldi r0,1"}, 0, cpu.ErrInstructionUnknown},
		{"wild_jump", []string{"ldi r0,0xff", "jmp r0"}, 0, cpu.ErrInstructionUnknown},
	}

	for _, entry := range table {
		emu := NewEmulator()
		emu.Tape.Output = &bytes.Buffer{}

		asm := &cpu.Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.NoError(err, entry.name)
		emu.Program = prog

		assert.NoError(emu.Reset(), entry.name)
		err = emu.Run()
		assert.ErrorIs(err, entry.err, entry.name)

		var runtime *ErrRuntime
		if assert.True(errors.As(err, &runtime), entry.name) {
			assert.Equal(entry.lineno, runtime.LineNo, entry.name)
		}

		var fault *cpu.ErrFault
		assert.True(errors.As(err, &fault), entry.name)
	}
}

func TestEmulator_AddressFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Tape.Output = &bytes.Buffer{}

	// prn at the last address advances past the end of memory.
	image := make([]byte, cpu.MEMORY_SIZE)
	image[0] = byte(cpu.OP_LDI)
	image[2] = 0xfe
	image[3] = byte(cpu.OP_JMP)
	image[0xfe] = byte(cpu.OP_PRN)

	emu.Program = &cpu.Program{
		Lines: []cpu.Line{
			{LineNo: 1, Address: 0, Bytes: image},
		},
	}

	assert.NoError(emu.Reset())
	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrAddress)
	assert.Equal("254\n", emu.Tape.Output.(*bytes.Buffer).String())

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(1, runtime.LineNo)
		assert.Equal(0xfe, runtime.Pc)
		assert.True(strings.HasPrefix(runtime.Error(), "line 1, pc 0xfe: "))
	}
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Pc: 0x10, Err: cpu.ErrHalted}
	assert.Equal("pc 0x10: "+cpu.ErrHalted.Error(), err.Error())
	assert.ErrorIs(err, cpu.ErrHalted)

	err.LineNo = 7
	assert.Equal("line 7, pc 0x10: "+cpu.ErrHalted.Error(), err.Error())
}
