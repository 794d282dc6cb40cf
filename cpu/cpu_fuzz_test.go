package cpu

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func FuzzCpu(f *testing.F) {
	for _, op := range []Opcode{OP_HLT, OP_PRN, OP_JMP, OP_JEQ, OP_JNE, OP_LDI, OP_ADD, OP_CMP, 0, 0xff} {
		f.Add(byte(op), byte(0), byte(1), byte(FL_EQUAL))
		f.Add(byte(op), byte(7), byte(0xff), byte(FL_LESS))
	}

	f.Fuzz(func(t *testing.T, opcode byte, arg1 byte, arg2 byte, fl byte) {
		assert := assert.New(t)

		capture := &io.Capture{}
		cpu := NewCpu(capture)
		cpu.Pc = 0x40
		cpu.Fl = fl
		for n := range REGISTER_COUNT {
			cpu.Register.Data[n] = byte(0x10*n + 0x08)
		}
		cpu.Memory.Data[0x40] = opcode
		cpu.Memory.Data[0x41] = arg1
		cpu.Memory.Data[0x42] = arg2

		memory := cpu.Memory.Data
		registers := cpu.Register.Data

		err := cpu.Tick()

		// Memory is never written by an instruction.
		assert.Equal(memory, cpu.Memory.Data)

		op := Opcode(opcode)
		if !op.Known() {
			assert.ErrorIs(err, ErrInstructionUnknown)
			assert.Equal(cpu.Fault, err)
			assert.Equal(0x40, cpu.Pc)
			assert.Equal(registers, cpu.Register.Data)
			return
		}

		var fault *ErrFault
		if errors.As(err, &fault) {
			assert.ErrorIs(err, ErrRegister)
			assert.Equal(0x40, fault.Pc)
			assert.Equal(op, fault.Opcode)
			return
		}

		assert.NoError(err)

		switch op {
		case OP_HLT:
			assert.True(cpu.Halted)
			assert.Equal(0x40, cpu.Pc)
		case OP_JMP:
			assert.Equal(int(registers[arg1]), cpu.Pc)
		case OP_JEQ:
			if fl&FL_EQUAL != 0 {
				assert.Equal(int(registers[arg1]), cpu.Pc)
			} else {
				assert.Equal(0x42, cpu.Pc)
			}
		case OP_JNE:
			if fl&FL_EQUAL == 0 {
				assert.Equal(int(registers[arg1]), cpu.Pc)
			} else {
				assert.Equal(0x42, cpu.Pc)
			}
		default:
			assert.Equal(0x40+op.AdvanceWidth(), cpu.Pc)
		}

		switch op {
		case OP_LDI:
			assert.Equal(arg2, cpu.Register.Data[arg1])
		case OP_ADD:
			assert.Equal(registers[arg1]+registers[arg2], cpu.Register.Data[arg1])
		case OP_PRN:
			assert.Equal([]byte{registers[arg1]}, capture.Values)
		case OP_CMP:
			assert.Equal(1, bits.OnesCount8(cpu.Fl))
			assert.Equal(Compare(registers[arg1], registers[arg2]), cpu.Fl)
		default:
			assert.Equal(fl, cpu.Fl)
		}
	})
}
