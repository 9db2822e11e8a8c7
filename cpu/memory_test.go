package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	assert.Equal(MEMORY_SIZE, mem.Size())

	word, err := mem.Read(0)
	assert.NoError(err)
	assert.Equal(uint32(0), word)
}

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)

	table := []struct {
		addr uint32
		word uint32
	}{
		{0, 0x01010093},
		{5, 0xffffffff},
		{0x1002, 0x80000001},
		{MEMORY_SIZE - 4, 0xcafef00d},
	}

	for _, entry := range table {
		err := mem.Write(entry.addr, entry.word)
		assert.NoError(err)
		word, err := mem.Read(entry.addr)
		assert.NoError(err)
		assert.Equal(entry.word, word, "addr 0x%x", entry.addr)
	}

	// Little endian layout.
	assert.Equal([]byte{0x93, 0x00, 0x01, 0x01}, mem.Data[0:4])
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	err := mem.Load([]byte{0x93, 0x00, 0x01, 0x01, 0x94, 0x00, 0x01, 0x01})
	assert.NoError(err)

	word, _ := mem.Read(0)
	assert.Equal(uint32(0x01010093), word)
	word, _ = mem.Read(4)
	assert.Equal(uint32(0x01010094), word)
	word, _ = mem.Read(8)
	assert.Equal(uint32(0), word)

	assert.NoError(mem.Write(0, 0x01010095))
	assert.NoError(mem.Write(4, 0x01010096))
	word, _ = mem.Read(0)
	assert.Equal(uint32(0x01010095), word)
	word, _ = mem.Read(4)
	assert.Equal(uint32(0x01010096), word)

	mem.Reset()
	word, _ = mem.Read(0)
	assert.Equal(uint32(0), word)

	err = NewMemory(4).Load(make([]byte, 5))
	assert.ErrorIs(err, ErrImageSize)
}

func TestMemory_Range(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	for _, addr := range []uint32{13, 14, 15, 16, 0xfffffffe, 0xffffffff} {
		_, err := mem.Read(addr)
		assert.Equal(ErrAddress(addr), err)
		err = mem.Write(addr, 0x12345678)
		assert.ErrorIs(err, ErrAddress(0))
	}

	assert.NoError(mem.Write(12, 0x12345678))
}
