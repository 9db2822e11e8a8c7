package cpu

import (
	"errors"

	"github.com/ezrec/rv32sim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrImageSize          = errors.New(f("image exceeds memory"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
)

// ErrIllegalInstruction carries an instruction word that does not decode.
type ErrIllegalInstruction uint32

func (ei ErrIllegalInstruction) Error() string {
	return f("illegal instruction 0x%08x", uint32(ei))
}

// Is matches any illegal instruction, regardless of the word.
func (ei ErrIllegalInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrIllegalInstruction)
	return
}

// ErrAddress is a word access that does not fit inside memory.
type ErrAddress uint32

func (ea ErrAddress) Error() string {
	return f("address 0x%08x out of range", uint32(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrRegisterInvalid string

func (er ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(er))
}

// ErrImmediateRange is an immediate that does not fit its encoding.
type ErrImmediateRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err ErrImmediateRange) Error() string {
	return f("immediate %v not in range [%v, %v]", err.Value, err.Min, err.Max)
}

// ErrBranchRange is a branch target that cannot be encoded.
type ErrBranchRange int64

func (err ErrBranchRange) Error() string {
	return f("branch offset %v unreachable", int64(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrParseAddress string

func (err ErrParseAddress) Error() string {
	return f("'%v' is not an offset(register) address", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
