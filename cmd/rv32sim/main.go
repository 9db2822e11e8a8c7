// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	stdio "io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/rv32sim/cpu"
	"github.com/ezrec/rv32sim/emulator"
	"github.com/ezrec/rv32sim/io"
)

func main() {
	var compile string
	var save string
	var input string
	var output string
	var raw bool
	var verbose bool

	predefine := map[string]string{}

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&save, "s", "", "Save assembled image to file, do not execute")
	flag.StringVar(&input, "i", "-", "Serial input")
	flag.StringVar(&output, "o", "-", "Serial output")
	flag.BoolVar(&raw, "raw", false, "Raw terminal mode for serial input")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "Predefine NAME=VALUE for the assembler", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return fmt.Errorf("expected NAME=VALUE, got %q", arg)
		}
		predefine[name] = value
		return nil
	})

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	switch {
	case len(compile) != 0 && flag.NArg() == 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		for key, value := range predefine {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(compile) == 0 && flag.NArg() == 1:
		image, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
		emu.Image = image
	default:
		log.Fatalf("usage: %v [options] (-c FILE.s | FILE.bin)", os.Args[0])
	}

	if len(save) != 0 {
		image := emu.Image
		if image == nil {
			image = emu.Program.Binary()
		}
		err := os.WriteFile(save, image, 0644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	console, closers, err := openSerial(emu, input, output, raw)
	if err != nil {
		log.Fatal(err)
	}
	for _, closer := range closers {
		defer closer.Close()
	}

	err = emu.Reset()
	if err == nil {
		err = emu.Run()
	}

	if console != nil {
		console.Close()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
	}

	fmt.Print(emu.Cpu.String())

	if err != nil {
		os.Exit(1)
	}
}

// openSerial attaches the serial port to the named input and output
// files, "-" being stdin or stdout. The console is opened only once both
// files are open, so a failure never leaves the terminal raw.
func openSerial(emu *emulator.Emulator, input, output string, raw bool) (console *io.Console, closers []stdio.Closer, err error) {
	defer func() {
		if err != nil {
			for _, closer := range closers {
				closer.Close()
			}
			closers = nil
		}
	}()

	if input != "-" {
		var inf *os.File
		inf, err = os.Open(input)
		if err != nil {
			return
		}
		closers = append(closers, inf)
		emu.Serial.Input = inf
	}

	if output == "-" {
		emu.Serial.Output = os.Stdout
	} else {
		var ouf *os.File
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		closers = append(closers, ouf)
		emu.Serial.Output = ouf
	}

	if input == "-" {
		console, err = io.OpenConsole(os.Stdin, raw)
		if err != nil {
			err = fmt.Errorf("stdin: %w", err)
			return
		}
		emu.Serial.Input = os.Stdin
	}

	return
}
