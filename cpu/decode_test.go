package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		word uint32
		inst Instruction
		text string
	}{
		{0x00000000, Nop{}, "nop"},
		{0x00000013, Nop{}, "nop"},
		{0x00000093, Addi{Rd: 1, Rs1: 0, Imm: 0}, "addi x1, x0, 0"},
		{0x01010093, Addi{Rd: 1, Rs1: 2, Imm: 16}, "addi x1, x2, 16"},
		{0x80000093, Addi{Rd: 1, Rs1: 0, Imm: 0x800}, "addi x1, x0, -2048"},
		{0x002081b3, Add{Rd: 3, Rs1: 1, Rs2: 2}, "add x3, x1, x2"},
		{0x402081b3, Sub{Rd: 3, Rs1: 1, Rs2: 2}, "sub x3, x1, x2"},
		{0x0020e1b3, Or{Rd: 3, Rs1: 1, Rs2: 2}, "or x3, x1, x2"},
		{0x0020f1b3, And{Rd: 3, Rs1: 1, Rs2: 2}, "and x3, x1, x2"},
		{0x00309093, Slli{Rd: 1, Rs1: 1, Imm: 3}, "slli x1, x1, 3"},
		{0x00812283, Lw{Rd: 5, Rs1: 2, Imm: 8}, "lw x5, 8(x2)"},
		{0xffc12283, Lw{Rd: 5, Rs1: 2, Imm: 0xffc}, "lw x5, -4(x2)"},
		{0x00512623, Sw{Rs1: 2, Rs2: 5, Imm: 12}, "sw x5, 12(x2)"},
		{0xfe512e23, Sw{Rs1: 2, Rs2: 5, Imm: 0xffc}, "sw x5, -4(x2)"},
		{0xfe208ce3, Beq{Rs1: 1, Rs2: 2, Imm: 0x1ff8}, "beq x1, x2, -8"},
		{0x00208463, Beq{Rs1: 1, Rs2: 2, Imm: 8}, "beq x1, x2, 8"},
		{0x80000063, Beq{Rs1: 0, Rs2: 0, Imm: 0x1000}, "beq x0, x0, -4096"},
		{0x7e000fe3, Beq{Rs1: 0, Rs2: 0, Imm: 0xffe}, "beq x0, x0, 4094"},
	}

	for _, entry := range table {
		name := fmt.Sprintf("0x%08x", entry.word)
		inst, err := Decode(entry.word)
		assert.NoError(err, name)
		assert.Equal(entry.inst, inst, name)
		if inst != nil {
			assert.Equal(entry.text, inst.String(), name)
		}
	}
}

func TestDecode_Illegal(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		word uint32
	}{
		{"opcode_0x14", 0x01010094},
		{"opcode_0x7f", 0x0000007f},
		{"opcode_zero", 0x00000080},
		{"lui", 0x000010b7},
		{"mul", 0x022081b3},
		{"sltu", 0x0020b1b3},
		{"sub_funct7", 0x602081b3},
		{"slti", 0x00202093},
		{"lb", 0x00810283},
		{"sb", 0x00510623},
		{"bne", 0xfe209ce3},
	}

	for _, entry := range table {
		inst, err := Decode(entry.word)
		assert.Nil(inst, entry.name)
		assert.Equal(ErrIllegalInstruction(entry.word), err, entry.name)
		assert.True(errors.Is(err, ErrIllegalInstruction(0)), entry.name)
	}
}

func TestDecode_Fields(t *testing.T) {
	assert := assert.New(t)

	// Register-register encodings re-encode to their original fields.
	funct := []struct {
		funct3 uint32
		funct7 uint32
		op     Op
	}{
		{FUNCT3_ADD, FUNCT7_ADD, OP_ADD},
		{FUNCT3_ADD, FUNCT7_SUB, OP_SUB},
		{FUNCT3_OR, 0, OP_OR},
		{FUNCT3_AND, 0, OP_AND},
	}

	for _, fn := range funct {
		for _, rd := range []uint32{0, 1, 17, 31} {
			for _, rs1 := range []uint32{0, 2, 16, 31} {
				for _, rs2 := range []uint32{0, 3, 15, 31} {
					word := encodeR(OPCODE_OP, fn.funct3, fn.funct7, rd, rs1, rs2)
					inst, err := Decode(word)
					assert.NoError(err)
					if err != nil {
						continue
					}
					assert.Equal(fn.op, inst.Op())
					again := inst.Encode()
					assert.Equal(word, again)
					assert.Equal(OPCODE_OP, fieldOpcode(again))
					assert.Equal(fn.funct3, fieldFunct3(again))
					assert.Equal(fn.funct7, fieldFunct7(again))
					assert.Equal(rd, fieldRd(again))
					assert.Equal(rs1, fieldRs1(again))
					assert.Equal(rs2, fieldRs2(again))
				}
			}
		}
	}
}

func TestOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("add", OP_ADD.String())
	assert.Equal("slli", OP_SLLI.String())
	assert.Equal("nop", OP_NOP.String())
	assert.Equal("Op(10)", Op(10).String())
	assert.Equal("finished", STATUS_FINISHED.String())
}
