package io

import (
	"os"

	"golang.org/x/term"
)

// Console attaches the serial port to the host terminal. In raw mode the
// terminal delivers each keystroke to the serial input unbuffered and
// unechoed.
type Console struct {
	fd       int
	oldState *term.State
}

// OpenConsole prepares file for use as serial input. When raw is set
// and file is a terminal, the terminal is put in raw mode until Close.
func OpenConsole(file *os.File, raw bool) (con *Console, err error) {
	con = &Console{fd: int(file.Fd())}

	if !raw || !term.IsTerminal(con.fd) {
		return
	}

	con.oldState, err = term.MakeRaw(con.fd)
	if err != nil {
		con = nil
		return
	}

	return
}

// Raw returns true if the terminal is in raw mode.
func (con *Console) Raw() bool {
	return con.oldState != nil
}

// Close restores the terminal state.
func (con *Console) Close() (err error) {
	if con.oldState == nil {
		return
	}

	err = term.Restore(con.fd, con.oldState)
	con.oldState = nil

	return
}
