package cpu

// Decode translates an instruction word into an Instruction.
//
// The all-zero word and the canonical addi x0, x0, 0 both decode to Nop.
// Words that match no known instruction return ErrIllegalInstruction.
func Decode(word uint32) (inst Instruction, err error) {
	if word == 0 || word == NOP_WORD {
		inst = Nop{}
		return
	}

	opcode := fieldOpcode(word)
	rd := fieldRd(word)
	funct3 := fieldFunct3(word)
	rs1 := fieldRs1(word)
	rs2 := fieldRs2(word)
	funct7 := fieldFunct7(word)

	switch opcode {
	case OPCODE_OP:
		switch funct3 {
		case FUNCT3_ADD:
			switch funct7 {
			case FUNCT7_ADD:
				inst = Add{Rd: rd, Rs1: rs1, Rs2: rs2}
			case FUNCT7_SUB:
				inst = Sub{Rd: rd, Rs1: rs1, Rs2: rs2}
			}
		case FUNCT3_OR:
			inst = Or{Rd: rd, Rs1: rs1, Rs2: rs2}
		case FUNCT3_AND:
			inst = And{Rd: rd, Rs1: rs1, Rs2: rs2}
		}
	case OPCODE_OP_IMM:
		imm := word >> 20
		switch funct3 {
		case FUNCT3_ADDI:
			inst = Addi{Rd: rd, Rs1: rs1, Imm: imm}
		case FUNCT3_SLLI:
			inst = Slli{Rd: rd, Rs1: rs1, Imm: imm}
		}
	case OPCODE_LOAD:
		imm := word >> 20
		if funct3 == FUNCT3_LW {
			inst = Lw{Rd: rd, Rs1: rs1, Imm: imm}
		}
	case OPCODE_STORE:
		imm := (funct7 << 5) | rd
		if funct3 == FUNCT3_SW {
			inst = Sw{Rs1: rs1, Rs2: rs2, Imm: imm}
		}
	case OPCODE_BRANCH:
		imm := ((word >> 31) & 1) << 12
		imm |= ((word >> 7) & 1) << 11
		imm |= ((word >> 25) & 0x3f) << 5
		imm |= ((word >> 8) & 0xf) << 1
		if funct3 == FUNCT3_BEQ {
			inst = Beq{Rs1: rs1, Rs2: rs2, Imm: imm}
		}
	}

	if inst == nil {
		err = ErrIllegalInstruction(word)
	}

	return
}
