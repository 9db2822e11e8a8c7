package cpu

import (
	"fmt"
)

const (
	REGISTER_COUNT = 32 // Number of general purpose registers.
)

// Registers is the general purpose register file. x0 always reads as zero.
type Registers struct {
	x [REGISTER_COUNT]uint32
}

// Read returns the value of register index.
func (regs *Registers) Read(index uint32) uint32 {
	if index >= REGISTER_COUNT {
		panic(fmt.Sprintf("register x%d out of range", index))
	}

	return regs.x[index]
}

// Write sets register index. Writes to x0 are discarded.
func (regs *Registers) Write(index uint32, value uint32) {
	if index >= REGISTER_COUNT {
		panic(fmt.Sprintf("register x%d out of range", index))
	}

	if index != 0 {
		regs.x[index] = value
	}
}

// Reset zeros all registers.
func (regs *Registers) Reset() {
	clear(regs.x[:])
}
