package io

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_NotTerminal(t *testing.T) {
	assert := assert.New(t)

	file, err := os.CreateTemp(t.TempDir(), "console")
	assert.NoError(err)
	defer file.Close()

	con, err := OpenConsole(file, true)
	assert.NoError(err)
	assert.NotNil(con)
	assert.False(con.Raw())
	assert.NoError(con.Close())
}

func TestConsole_Cooked(t *testing.T) {
	assert := assert.New(t)

	con, err := OpenConsole(os.Stdin, false)
	assert.NoError(err)
	assert.False(con.Raw())
	assert.NoError(con.Close())
}
