package io

import (
	"errors"

	"github.com/ezrec/rv32sim/translate"
)

var f = translate.From

var (
	// Device errors
	ErrSerialDetached = errors.New(f("serial port detached"))
)
