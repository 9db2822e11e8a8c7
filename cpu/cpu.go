package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/rv32sim/io"
)

const (
	NOP_LIMIT = 5 // Consecutive no-ops that end a program.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
	"NOP_LIMIT":   fmt.Sprintf("%d", NOP_LIMIT),
}

// Cpu is the simulation context for a single RV32I subset core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint32     // Address of the next instruction to fetch.
	Register Registers  // Register bank.
	Memory   *Memory    // Backing memory.
	Serial   *io.Serial // Device mapped at io.SERIAL_ADDRESS.

	NopCount int // Consecutive no-ops decoded.
	Ticks    int // Instructions executed.
}

// NewCpu creates a new CPU with a specifically sized memory, and a
// detached serial port.
func NewCpu(size uint) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(size),
		Serial: &io.Serial{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Sets the PC to 0.
// - Clears the registers and memory.
// - Zeros the no-op and tick counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Register.Reset()
	cpu.Memory.Reset()
	cpu.NopCount = 0
	cpu.Ticks = 0
}

// Load a program image at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes", len(image))
	}

	return cpu.Memory.Load(image)
}

// String returns the register dump.
func (cpu *Cpu) String() string {
	var text strings.Builder

	rule := strings.Repeat("-", 80)

	text.WriteString(rule + "\n")
	for i := range REGISTER_COUNT / 4 {
		for j := range 4 {
			if j != 0 {
				text.WriteString("\t")
			}
			n := uint32(i*4 + j)
			val := cpu.Register.Read(n)
			fmt.Fprintf(&text, "x%02d = 0x%x (%d)", n, val, val)
		}
		text.WriteString("\n")
	}
	text.WriteString(rule + "\n")
	fmt.Fprintf(&text, "pc = 0x%x (%d)\n", cpu.Pc, cpu.Pc)

	return text.String()
}

// Fetch the instruction word at the PC.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	return cpu.Memory.Read(cpu.Pc)
}

// Step performs a single fetch, decode and execute cycle.
//
// Once NOP_LIMIT consecutive no-ops have been executed, Step reports
// STATUS_FINISHED and does nothing further.
func (cpu *Cpu) Step() (status Status, err error) {
	if cpu.NopCount >= NOP_LIMIT {
		status = STATUS_FINISHED
		return
	}

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	inst, err := Decode(word)
	if err != nil {
		return
	}

	if inst.Op() == OP_NOP {
		cpu.NopCount++
	} else {
		cpu.NopCount = 0
	}

	err = cpu.Execute(inst)
	if err != nil {
		return
	}

	if cpu.NopCount >= NOP_LIMIT {
		if cpu.Verbose {
			log.Printf("cpu: finished at pc 0x%08x", cpu.Pc)
		}
		status = STATUS_FINISHED
	}

	return
}

// Execute applies a single decoded instruction.
//
// On error the PC is left at the faulting instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Pc, inst)
	}

	regs := &cpu.Register
	next_pc := cpu.Pc + 4

	switch inst := inst.(type) {
	case Add:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)+regs.Read(inst.Rs2))
	case Sub:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)-regs.Read(inst.Rs2))
	case Or:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)|regs.Read(inst.Rs2))
	case And:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)&regs.Read(inst.Rs2))
	case Addi:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)+signExtend(inst.Imm, 12))
	case Slli:
		regs.Write(inst.Rd, regs.Read(inst.Rs1)<<(inst.Imm&0x1f))
	case Beq:
		if regs.Read(inst.Rs1) == regs.Read(inst.Rs2) {
			next_pc = cpu.Pc + signExtend(inst.Imm, 13)
		}
	case Lw:
		addr := regs.Read(inst.Rs1) + signExtend(inst.Imm, 12)
		var value uint32
		if addr == io.SERIAL_ADDRESS {
			value, err = cpu.Serial.Read()
		} else {
			value, err = cpu.Memory.Read(addr)
		}
		if err != nil {
			return
		}
		regs.Write(inst.Rd, value)
	case Sw:
		addr := regs.Read(inst.Rs1) + signExtend(inst.Imm, 12)
		value := regs.Read(inst.Rs2)
		if addr == io.SERIAL_ADDRESS {
			err = cpu.Serial.Write(value)
		} else {
			err = cpu.Memory.Write(addr, value)
		}
		if err != nil {
			return
		}
	case Nop:
		// pass
	default:
		err = ErrInstructionInvalid
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}
