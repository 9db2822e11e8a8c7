package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction word.
//
// Immediates are held as the raw bit pattern from the instruction word.
// Sign extension is applied at execution time, as the width and meaning
// of the immediate depends on the instruction.
type Instruction interface {
	// Op returns the kind of instruction.
	Op() Op
	// Encode returns the instruction word.
	Encode() uint32
	// String returns the assembly language form.
	String() string
}

// Add sets rd to rs1 + rs2.
type Add struct{ Rd, Rs1, Rs2 uint32 }

// Sub sets rd to rs1 - rs2.
type Sub struct{ Rd, Rs1, Rs2 uint32 }

// Or sets rd to rs1 | rs2.
type Or struct{ Rd, Rs1, Rs2 uint32 }

// And sets rd to rs1 & rs2.
type And struct{ Rd, Rs1, Rs2 uint32 }

// Addi sets rd to rs1 plus the sign extended 12-bit immediate.
type Addi struct{ Rd, Rs1, Imm uint32 }

// Slli sets rd to rs1 shifted left by the low 5 bits of the immediate.
type Slli struct{ Rd, Rs1, Imm uint32 }

// Beq branches by the sign extended 13-bit immediate if rs1 == rs2.
type Beq struct{ Rs1, Rs2, Imm uint32 }

// Lw loads rd from the word at rs1 plus the sign extended immediate.
type Lw struct{ Rd, Rs1, Imm uint32 }

// Sw stores rs2 to the word at rs1 plus the sign extended immediate.
type Sw struct{ Rs1, Rs2, Imm uint32 }

// Nop does nothing but advance the PC.
type Nop struct{}

var (
	_ Instruction = Add{}
	_ Instruction = Sub{}
	_ Instruction = Or{}
	_ Instruction = And{}
	_ Instruction = Addi{}
	_ Instruction = Slli{}
	_ Instruction = Beq{}
	_ Instruction = Lw{}
	_ Instruction = Sw{}
	_ Instruction = Nop{}
)

func (Add) Op() Op  { return OP_ADD }
func (Sub) Op() Op  { return OP_SUB }
func (Or) Op() Op   { return OP_OR }
func (And) Op() Op  { return OP_AND }
func (Addi) Op() Op { return OP_ADDI }
func (Slli) Op() Op { return OP_SLLI }
func (Beq) Op() Op  { return OP_BEQ }
func (Lw) Op() Op   { return OP_LW }
func (Sw) Op() Op   { return OP_SW }
func (Nop) Op() Op  { return OP_NOP }

// encodeR assembles a register-register format word.
func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return (funct7&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		(funct3&0x7)<<12 | (rd&0x1f)<<7 | opcode
}

// encodeI assembles an immediate format word.
func encodeI(opcode, funct3, rd, rs1, imm uint32) uint32 {
	return (imm&0xfff)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (rd&0x1f)<<7 | opcode
}

// encodeS assembles a store format word.
func encodeS(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return ((imm>>5)&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		(funct3&0x7)<<12 | (imm&0x1f)<<7 | opcode
}

// encodeB assembles a branch format word. Bit 0 of imm is dropped.
func encodeB(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return ((imm>>12)&1)<<31 | ((imm>>5)&0x3f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		(funct3&0x7)<<12 | ((imm>>1)&0xf)<<8 | ((imm>>11)&1)<<7 | opcode
}

func (inst Add) Encode() uint32 {
	return encodeR(OPCODE_OP, FUNCT3_ADD, FUNCT7_ADD, inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Sub) Encode() uint32 {
	return encodeR(OPCODE_OP, FUNCT3_ADD, FUNCT7_SUB, inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Or) Encode() uint32 {
	return encodeR(OPCODE_OP, FUNCT3_OR, 0, inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst And) Encode() uint32 {
	return encodeR(OPCODE_OP, FUNCT3_AND, 0, inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Addi) Encode() uint32 {
	return encodeI(OPCODE_OP_IMM, FUNCT3_ADDI, inst.Rd, inst.Rs1, inst.Imm)
}

func (inst Slli) Encode() uint32 {
	return encodeI(OPCODE_OP_IMM, FUNCT3_SLLI, inst.Rd, inst.Rs1, inst.Imm)
}

func (inst Beq) Encode() uint32 {
	return encodeB(OPCODE_BRANCH, FUNCT3_BEQ, inst.Rs1, inst.Rs2, inst.Imm)
}

func (inst Lw) Encode() uint32 {
	return encodeI(OPCODE_LOAD, FUNCT3_LW, inst.Rd, inst.Rs1, inst.Imm)
}

func (inst Sw) Encode() uint32 {
	return encodeS(OPCODE_STORE, FUNCT3_SW, inst.Rs1, inst.Rs2, inst.Imm)
}

func (inst Nop) Encode() uint32 {
	return NOP_WORD
}

func (inst Add) String() string {
	return fmt.Sprintf("%v x%d, x%d, x%d", inst.Op(), inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Sub) String() string {
	return fmt.Sprintf("%v x%d, x%d, x%d", inst.Op(), inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Or) String() string {
	return fmt.Sprintf("%v x%d, x%d, x%d", inst.Op(), inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst And) String() string {
	return fmt.Sprintf("%v x%d, x%d, x%d", inst.Op(), inst.Rd, inst.Rs1, inst.Rs2)
}

func (inst Addi) String() string {
	return fmt.Sprintf("%v x%d, x%d, %d", inst.Op(), inst.Rd, inst.Rs1, int32(signExtend(inst.Imm, 12)))
}

func (inst Slli) String() string {
	return fmt.Sprintf("%v x%d, x%d, %d", inst.Op(), inst.Rd, inst.Rs1, inst.Imm&0x1f)
}

func (inst Beq) String() string {
	return fmt.Sprintf("%v x%d, x%d, %d", inst.Op(), inst.Rs1, inst.Rs2, int32(signExtend(inst.Imm, 13)))
}

func (inst Lw) String() string {
	return fmt.Sprintf("%v x%d, %d(x%d)", inst.Op(), inst.Rd, int32(signExtend(inst.Imm, 12)), inst.Rs1)
}

func (inst Sw) String() string {
	return fmt.Sprintf("%v x%d, %d(x%d)", inst.Op(), inst.Rs2, int32(signExtend(inst.Imm, 12)), inst.Rs1)
}

func (inst Nop) String() string {
	return inst.Op().String()
}
