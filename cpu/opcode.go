package cpu

// Major opcodes, bits [0:7) of an instruction word.
const (
	OPCODE_LOAD   = uint32(0b0000011) // lw
	OPCODE_OP_IMM = uint32(0b0010011) // addi, slli
	OPCODE_STORE  = uint32(0b0100011) // sw
	OPCODE_OP     = uint32(0b0110011) // add, sub, or, and
	OPCODE_BRANCH = uint32(0b1100011) // beq
)

// Secondary function codes.
const (
	FUNCT3_ADD  = uint32(0x0) // add and sub
	FUNCT3_OR   = uint32(0x6)
	FUNCT3_AND  = uint32(0x7)
	FUNCT3_ADDI = uint32(0x0)
	FUNCT3_SLLI = uint32(0x1)
	FUNCT3_LW   = uint32(0x2)
	FUNCT3_SW   = uint32(0x2)
	FUNCT3_BEQ  = uint32(0x0)

	FUNCT7_ADD = uint32(0x00)
	FUNCT7_SUB = uint32(0x20)
)

// NOP_WORD is the canonical no-op encoding, addi x0, x0, 0.
const NOP_WORD = uint32(0x00000013)

// Op identifies the kind of a decoded instruction.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD  = Op(0) // add
	OP_SUB  = Op(1) // sub
	OP_OR   = Op(2) // or
	OP_AND  = Op(3) // and
	OP_ADDI = Op(4) // addi
	OP_SLLI = Op(5) // slli
	OP_BEQ  = Op(6) // beq
	OP_LW   = Op(7) // lw
	OP_SW   = Op(8) // sw
	OP_NOP  = Op(9) // nop
)

// Status is the result of a single CPU step.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_PROCESSING = Status(0) // processing
	STATUS_FINISHED   = Status(1) // finished
)

// Instruction word field extraction.

func fieldOpcode(word uint32) uint32 { return word & 0x7f }
func fieldRd(word uint32) uint32     { return (word >> 7) & 0x1f }
func fieldFunct3(word uint32) uint32 { return (word >> 12) & 0x7 }
func fieldRs1(word uint32) uint32    { return (word >> 15) & 0x1f }
func fieldRs2(word uint32) uint32    { return (word >> 20) & 0x1f }
func fieldFunct7(word uint32) uint32 { return (word >> 25) & 0x7f }

// signExtend replicates bit (width-1) of value into the upper bits.
func signExtend(value uint32, width int) uint32 {
	shift := 32 - width
	return uint32(int32(value<<shift) >> shift)
}
