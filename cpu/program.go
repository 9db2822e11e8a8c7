package cpu

import (
	"encoding/binary"
	"iter"
)

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the code word at a PC in the listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode, and the word within it, for a PC.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+uint32(4*len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-op.Pc) / 4,
			}
			break
		}
	}

	return
}

// Binary returns the little-endian program image, loadable at address 0.
func (prog *Program) Binary() (image []byte) {
	for pc, code := range prog.Codes() {
		for uint32(len(image)) < pc+4 {
			image = append(image, 0)
		}
		binary.LittleEndian.PutUint32(image[pc:], code)
	}

	return
}

// Codes iterates over the code words of the program, by PC.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(pc uint32, code uint32) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+uint32(4*n), code) {
					return
				}
			}
		}
	}
}
