package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rv32sim/emulator"
)

func TestOpenSerial(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "input.bin")
	err := os.WriteFile(input, []byte("abcd"), 0644)
	assert.NoError(err)

	emu := emulator.NewEmulator()
	console, closers, err := openSerial(emu, input, filepath.Join(dir, "output.bin"), true)
	assert.NoError(err)
	assert.Nil(console)
	assert.Equal(2, len(closers))
	assert.NotNil(emu.Serial.Input)
	assert.NotNil(emu.Serial.Output)
	for _, closer := range closers {
		assert.NoError(closer.Close())
	}
}

func TestOpenSerialFailure(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing", "output.bin")

	// Output failure with console input: the console is never opened.
	emu := emulator.NewEmulator()
	console, closers, err := openSerial(emu, "-", missing, true)
	assert.Error(err)
	assert.Nil(console)
	assert.Nil(closers)
	assert.Nil(emu.Serial.Input)

	// Input failure.
	emu = emulator.NewEmulator()
	console, closers, err = openSerial(emu, filepath.Join(dir, "nothing.bin"), "-", false)
	assert.Error(err)
	assert.Nil(console)
	assert.Nil(closers)
	assert.Nil(emu.Serial.Output)
}

func TestOpenSerialConsole(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	console, closers, err := openSerial(emu, "-", "-", false)
	assert.NoError(err)
	assert.Empty(closers)
	if assert.NotNil(console) {
		assert.False(console.Raw())
		assert.NoError(console.Close())
	}
	assert.Equal(os.Stdin, emu.Serial.Input)
	assert.Equal(os.Stdout, emu.Serial.Output)
}
