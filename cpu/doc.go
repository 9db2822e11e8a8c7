// Package cpu implements the processor core and assembler for an RV32I
// subset simulator.
//
// The core consists of a program counter (PC), thirty-two 32-bit
// general-purpose registers (x0-x31, with x0 wired to zero), a flat
// little-endian byte memory, and a single memory-mapped serial port at
// SERIAL_ADDRESS. Each Step fetches the word at the PC, decodes it into
// an Instruction, and executes it. A run of NOP_LIMIT consecutive no-ops
// terminates the program.
//
// The assembler accepts the same instruction subset in a conventional
// RISC-V syntax, and supports macros, labels, equates, and compile-time
// expression evaluation.
package cpu
