package cpu

import (
	"encoding/binary"
)

const (
	MEMORY_SIZE = 1024 * 1024 // Default memory capacity, in bytes.
)

// Memory is a flat, byte addressable, little-endian store.
type Memory struct {
	Data []byte
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size uint) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}

	return
}

// Size returns the capacity in bytes.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Load copies an image verbatim to address 0.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > len(mem.Data) {
		err = ErrImageSize
		return
	}

	copy(mem.Data, image)

	return
}

// word returns the 4 byte window at addr.
func (mem *Memory) word(addr uint32) (data []byte, err error) {
	index := uint64(addr)
	if index+4 > uint64(len(mem.Data)) {
		err = ErrAddress(addr)
		return
	}

	data = mem.Data[index : index+4]
	return
}

// Read a word from addr.
func (mem *Memory) Read(addr uint32) (word uint32, err error) {
	data, err := mem.word(addr)
	if err != nil {
		return
	}

	word = binary.LittleEndian.Uint32(data)
	return
}

// Write a word to addr.
func (mem *Memory) Write(addr uint32, word uint32) (err error) {
	data, err := mem.word(addr)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(data, word)
	return
}
