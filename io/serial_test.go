package io

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestSerial_Write(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	sp := &Serial{Output: output}

	err := sp.Write(0x01020304)
	assert.NoError(err)
	assert.Equal([]byte{0x04, 0x03, 0x02, 0x01}, output.Bytes())

	err = sp.Write(0xffffffff)
	assert.NoError(err)
	assert.Equal([]byte{0x04, 0x03, 0x02, 0x01, 0xff, 0xff, 0xff, 0xff}, output.Bytes())
}

func TestSerial_Read(t *testing.T) {
	assert := assert.New(t)

	sp := &Serial{Input: bytes.NewReader([]byte{0x78, 0x56, 0x34, 0x12, 0xaa})}

	word, err := sp.Read()
	assert.NoError(err)
	assert.Equal(uint32(0x12345678), word)

	// Short read, zero filled.
	word, err = sp.Read()
	assert.NoError(err)
	assert.Equal(uint32(0xaa), word)

	// End of input.
	word, err = sp.Read()
	assert.NoError(err)
	assert.Equal(uint32(0), word)
}

func TestSerial_ReadOneByte(t *testing.T) {
	assert := assert.New(t)

	sp := &Serial{Input: iotest.OneByteReader(bytes.NewReader([]byte{0x11, 0x22, 0x33, 0x44}))}

	word, err := sp.Read()
	assert.NoError(err)
	assert.Equal(uint32(0x11), word)

	word, err = sp.Read()
	assert.NoError(err)
	assert.Equal(uint32(0x22), word)
}

func TestSerial_Errors(t *testing.T) {
	assert := assert.New(t)

	sp := &Serial{}

	_, err := sp.Read()
	assert.ErrorIs(err, ErrSerialDetached)

	err = sp.Write(0)
	assert.ErrorIs(err, ErrSerialDetached)

	failure := errors.New("stream failure")
	sp.Input = iotest.ErrReader(failure)
	_, err = sp.Read()
	assert.ErrorIs(err, failure)

	sp.Output = iotest.TruncateWriter(&bytes.Buffer{}, 0)
	err = sp.Write(0x1234)
	assert.NoError(err)
}

func TestSerial_Defines(t *testing.T) {
	assert := assert.New(t)

	sp := &Serial{}

	defines := map[string]string{}
	for key, value := range sp.Defines() {
		defines[key] = value
	}

	assert.Equal(map[string]string{"SERIAL_ADDRESS": "0x10000000"}, defines)
}
