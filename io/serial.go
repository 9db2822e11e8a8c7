// Package io provides the memory-mapped devices of the simulator, and
// their attachment to the host.
package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	SERIAL_ADDRESS = uint32(0x1000_0000) // Memory-mapped serial port.
)

// Serial is a word-wide serial port. Loads from the port consume 4 bytes
// of Input, and stores emit 4 bytes to Output, both little-endian.
type Serial struct {
	Input  io.Reader
	Output io.Writer
}

// Defines returns an iter of defines for the device.
func (sp *Serial) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"SERIAL_ADDRESS": fmt.Sprintf("0x%x", SERIAL_ADDRESS),
	})
}

// Read consumes a word from the input stream.
//
// A single read is issued; bytes the stream did not supply are zero.
// End of input is not an error.
func (sp *Serial) Read() (word uint32, err error) {
	if sp.Input == nil {
		err = ErrSerialDetached
		return
	}

	var buf [4]byte
	_, err = sp.Input.Read(buf[:])
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return
	}

	word = binary.LittleEndian.Uint32(buf[:])
	return
}

// Write emits a word to the output stream.
func (sp *Serial) Write(word uint32) (err error) {
	if sp.Output == nil {
		err = ErrSerialDetached
		return
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	_, err = sp.Output.Write(buf[:])

	return
}
