package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Sink receives the values printed by the CPU.
type Sink io.Sink

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"FL_EQUAL":       fmt.Sprintf("%#x", FL_EQUAL),
	"FL_GREATER":     fmt.Sprintf("%#x", FL_GREATER),
	"FL_LESS":        fmt.Sprintf("%#x", FL_LESS),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory       // Program and data memory.
	Register RegisterFile // Register bank.
	Pc       int          // Address of the next opcode to fetch.
	Fl       byte         // Flags from the most recent comparison.
	Halted   bool         // Set once a hlt executes.
	Fault    error        // The fatal fault, if any. Returned by all later ticks.

	Ticks int // Instructions executed since reset.

	Output Sink // Destination of prn values. Discarded if nil.
}

// NewCpu creates a new CPU that prints to output.
func NewCpu(output Sink) (cpu *Cpu) {
	cpu = &Cpu{
		Output: output,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// Memory is preserved; registers, flags and PC are zeroed.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.Halted = false
	cpu.Fault = nil
	cpu.Ticks = 0
}

// Load replaces memory with image. Addresses past the image are zeroed.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = errors.Join(ErrAddress, ErrProgramSize)
		return
	}

	cpu.Memory.Reset()
	copy(cpu.Memory.Data[:], image)

	return
}

// Trace returns a single line summary of the CPU state.
func (cpu *Cpu) Trace() (text string) {
	text = fmt.Sprintf("TRACE: pc: %02X | fl: %02X | ram: %02X %02X %02X | reg:",
		cpu.Pc,
		cpu.Fl,
		cpu.Memory.Peek(cpu.Pc),
		cpu.Memory.Peek(cpu.Pc+1),
		cpu.Memory.Peek(cpu.Pc+2),
	)
	for _, value := range cpu.Register.Data {
		text += fmt.Sprintf(" %02X", value)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %03b\n", "fl", cpu.Fl)
	for n, value := range cpu.Register.Data {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("r%d", n), value)
	}
	state := "running"
	switch {
	case cpu.Fault != nil:
		state = "fault"
	case cpu.Halted:
		state = "halted"
	}
	text += fmt.Sprintf("% 5s: %v\n", "state", state)

	return
}

// FetchCode fetches and decodes the instruction at the PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	opcode, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(opcode)

	count := code.Opcode.OperandCount()
	if count > OPERANDS_MAX {
		err = ErrInstructionUnknown
		return
	}

	code.Operands = make([]byte, count)
	for n := range count {
		code.Operands[n], err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Returns ErrHalted once the CPU has halted. After a fault, the same
// fault is returned from all future calls.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Fault != nil {
		return cpu.Fault
	}

	if cpu.Halted {
		return ErrHalted
	}

	pc := cpu.Pc
	code, err := cpu.FetchCode()
	if err == nil {
		err = cpu.Execute(code)
	}

	if err != nil {
		err = &ErrFault{Pc: pc, Opcode: code.Opcode, Err: err}
		cpu.Fault = err
	}

	return
}

// Run ticks the CPU until it halts, or faults.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalted) {
			return nil
		}
		if err != nil {
			return
		}
	}
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
		log.Print(cpu.Trace())
	}

	if !code.Opcode.Known() {
		err = ErrInstructionUnknown
		return
	}

	if len(code.Operands) != code.Opcode.OperandCount() {
		err = errors.Join(ErrInstructionUnknown, ErrOperandCount)
		return
	}

	next_pc := cpu.Pc + code.Width()

	switch {
	case code.Opcode.IsAlu():
		err = cpu.executeAlu(code)
	case code.Opcode.SetsPc():
		next_pc, err = cpu.executeJump(code, next_pc)
	default:
		next_pc, err = cpu.executeControl(code, next_pc)
	}

	if err != nil {
		return
	}

	if next_pc >= MEMORY_SIZE {
		err = errors.Join(ErrAddress, ErrAddressRange(next_pc))
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// executeAlu executes an instruction routed through the ALU.
func (cpu *Cpu) executeAlu(code Code) (err error) {
	args := code.Operands

	a, err := cpu.getRegister(args[0])
	if err != nil {
		return
	}
	b, err := cpu.getRegister(args[1])
	if err != nil {
		return
	}

	switch code.Opcode {
	case OP_ADD:
		var output byte
		output, err = Alu(ALU_OP_ADD, a, b)
		if err != nil {
			return
		}
		// The operand was validated by getRegister.
		reg, _ := RegisterOf(args[0])
		err = cpu.Register.Set(reg, output)
	case OP_CMP:
		cpu.Fl = Compare(a, b)
	default:
		err = ErrAluOperation
	}

	return
}

// executeJump executes a branch, returning the next PC.
func (cpu *Cpu) executeJump(code Code, pc int) (next_pc int, err error) {
	next_pc = pc

	target, err := cpu.getRegister(code.Operands[0])
	if err != nil {
		return
	}

	var taken bool
	switch code.Opcode {
	case OP_JMP:
		taken = true
	case OP_JEQ:
		taken = Flag(cpu.Fl, FL_BIT_EQUAL)
	case OP_JNE:
		taken = !Flag(cpu.Fl, FL_BIT_EQUAL)
	default:
		err = ErrInstructionUnknown
		return
	}

	if taken {
		next_pc = int(target)
	}

	return
}

// executeControl executes the load, print and halt instructions.
func (cpu *Cpu) executeControl(code Code, pc int) (next_pc int, err error) {
	next_pc = pc
	args := code.Operands

	switch code.Opcode {
	case OP_LDI:
		var reg int
		reg, err = RegisterOf(args[0])
		if err != nil {
			return
		}
		err = cpu.Register.Set(reg, args[1])
	case OP_PRN:
		var value byte
		value, err = cpu.getRegister(args[0])
		if err != nil {
			return
		}
		if cpu.Output != nil {
			err = cpu.Output.Emit(value)
		}
	case OP_HLT:
		cpu.Halted = true
		next_pc = cpu.Pc
	default:
		err = ErrInstructionUnknown
	}

	return
}

// getRegister gets the value of the register named by a register operand.
func (cpu *Cpu) getRegister(operand byte) (value byte, err error) {
	reg, err := RegisterOf(operand)
	if err != nil {
		return
	}

	return cpu.Register.Get(reg)
}
