// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"

	"github.com/ezrec/rv32sim/cpu"
	"github.com/ezrec/rv32sim/internal"
	"github.com/ezrec/rv32sim/io"
)

// Emulator state. CPU + serial port + program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Program listing, used when Image is nil.
	Image    []byte       // Raw program image, loaded at address 0.

	Serial io.Serial // Serial port, mapped at io.SERIAL_ADDRESS.
}

// NewEmulator creates a new emulator, with a full sized memory.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(cpu.MEMORY_SIZE),
		Program: &cpu.Program{},
	}

	emu.Cpu.Serial = &emu.Serial

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Serial.Defines(),
	)
}

// Reset the core, and load the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	image := emu.Image
	if image == nil && emu.Program != nil {
		image = emu.Program.Binary()
	}

	err = emu.Cpu.Load(image)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", len(image))
	}

	return
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number for the executing opcode, or 0
// if the program counter is outside the program listing.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	status, err := emu.Cpu.Step()
	if err != nil {
		return
	}

	done = (status == cpu.STATUS_FINISHED)

	return
}

// Run ticks the emulator until the program finishes, or fails.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	if emu.Verbose {
		log.Printf("emulator: finished after %d ticks", emu.Ticks())
	}

	return
}
