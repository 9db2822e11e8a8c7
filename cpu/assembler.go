// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	rvio "github.com/ezrec/rv32sim/io"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Opcode represents a line of assembled code with its source location and generated words.
type Opcode struct {
	LineNo    int
	Pc        uint32
	Words     []string
	Codes     []uint32
	LinkLabel string
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
	"NOP_LIMIT":      fmt.Sprintf("%d", NOP_LIMIT),
	"SERIAL_ADDRESS": fmt.Sprintf("%#x", rvio.SERIAL_ADDRESS),
}

// Assembler is a single pass macro assembler for the RV32I subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names, including ABI aliases, to indexes.
var regMap = func() map[string]uint32 {
	regs := map[string]uint32{
		"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
		"t0": 5, "t1": 6, "t2": 7,
		"s0": 8, "fp": 8, "s1": 9,
		"t3": 28, "t4": 29, "t5": 30, "t6": 31,
	}
	for n := range uint32(REGISTER_COUNT) {
		regs[fmt.Sprintf("x%d", n)] = n
	}
	for n := range uint32(8) {
		regs[fmt.Sprintf("a%d", n)] = 10 + n
	}
	for n := range uint32(10) {
		regs[fmt.Sprintf("s%d", n+2)] = 18 + n
	}
	return regs
}()

// splitWords splits a line at spaces and commas.
func splitWords(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, ",", " "))
}

// resolve replaces a word by its equate, if it has one.
func (asm *Assembler) resolve(word string) string {
	equate, ok := asm.Equate[word]
	if ok {
		return equate
	}
	return word
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(strings.ReplaceAll(word, "_", ""), 0, 33)
	if err != nil || value > 0xffffffff || value < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = int64(^uint32(value))
	}

	return
}

// register returns the register index named by word.
func (asm *Assembler) register(word string) (index uint32, err error) {
	index, ok := regMap[strings.ToLower(asm.resolve(word))]
	if !ok {
		err = ErrRegisterInvalid(word)
		return
	}
	return
}

// immediate returns the raw bits of a value in the range [min, max].
func (asm *Assembler) immediate(word string, min, max int64) (imm uint32, err error) {
	value, err := asm.valueOf(asm.resolve(word))
	if err != nil {
		return
	}

	if value < min || value > max {
		err = ErrImmediateRange{Value: value, Min: min, Max: max}
		return
	}

	imm = uint32(value)
	return
}

// immediate12 returns the bits of a 12-bit signed immediate.
func (asm *Assembler) immediate12(word string) (imm uint32, err error) {
	imm, err = asm.immediate(word, -2048, 2047)
	imm &= 0xfff
	return
}

var addressRegexp = regexp.MustCompile(`^(.*)\(([^()]+)\)$`)

// address decodes an 'offset(register)' memory operand.
func (asm *Assembler) address(word string) (imm uint32, rs1 uint32, err error) {
	parts := addressRegexp.FindStringSubmatch(word)
	if parts == nil {
		err = ErrParseAddress(word)
		return
	}

	if len(parts[1]) > 0 {
		imm, err = asm.immediate12(parts[1])
		if err != nil {
			return
		}
	}

	rs1, err = asm.register(parts[2])
	return
}

// branchOffset checks that a branch offset is encodable.
func branchOffset(offset int64) (imm uint32, err error) {
	if offset%2 != 0 || offset < -4096 || offset > 4094 {
		err = ErrBranchRange(offset)
		return
	}

	imm = uint32(offset) & 0x1fff
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	charRegexp  = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp = regexp.MustCompile(`\$\((?:[^()]|\([^()]*\))*\)`)
)

// stripComment removes a trailing ';' or '#' comment. Comment characters
// inside character literals are kept.
func stripComment(text string) string {
	quoted := charRegexp.FindAllStringIndex(text, -1)
	for n, c := range text {
		if c != ';' && c != '#' {
			continue
		}
		inside := slices.ContainsFunc(quoted, func(span []int) bool {
			return n > span[0] && n < span[1]-1
		})
		if !inside {
			return text[:n]
		}
	}
	return text
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		words[n] = asm.resolve(word)
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Local labels are unique to the invoking line.
		caller := lineno

		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, caller))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next opcode.
func (asm *Assembler) currentPc() uint32 {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + uint32(4*len(last.Codes))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of branch labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Codes) != 1 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		var inst Instruction
		inst, err = Decode(op.Codes[0])
		if err != nil {
			return
		}
		beq, ok := inst.(Beq)
		if !ok {
			log.Fatalf("Link label '%s' at line %d is not a branch: %v", label, op.LineNo, op.Words)
		}
		beq.Imm, err = branchOffset(int64(pc) - int64(op.Pc))
		if err != nil {
			return
		}
		op.Codes[0] = beq.Encode()
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// branch encodes a beq, to either a numeric offset or a label.
func (asm *Assembler) branch(rs1, rs2 uint32, target string) (code uint32, label string, err error) {
	beq := Beq{Rs1: rs1, Rs2: rs2}

	offset, err := asm.valueOf(target)
	if err != nil {
		// Linked after parsing.
		err = nil
		label = target
	} else {
		beq.Imm, err = branchOffset(offset)
		if err != nil {
			return
		}
	}

	code = beq.Encode()
	return
}

// argCount checks the number of operands.
func argCount(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeValueMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []uint32
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Pseudo-instruction substitutions
	switch pseudo := strings.ToLower(words[0]); {
	case len(words) == 3 && pseudo == "li":
		// li RD IMM => addi RD zero IMM
		words = []string{"addi", words[1], "zero", words[2]}
	case len(words) == 3 && pseudo == "mv":
		// mv RD RS => addi RD RS 0
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 2 && pseudo == "j":
		// j TARGET => beq zero zero TARGET
		words = []string{"beq", "zero", "zero", words[1]}
	default:
		// unchanged
	}

	switch op := strings.ToLower(words[0]); op {
	case "add", "sub", "or", "and":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var regs [3]uint32
		for n := range regs {
			regs[n], err = asm.register(words[1+n])
			if err != nil {
				return
			}
		}
		var inst Instruction
		switch op {
		case "add":
			inst = Add{Rd: regs[0], Rs1: regs[1], Rs2: regs[2]}
		case "sub":
			inst = Sub{Rd: regs[0], Rs1: regs[1], Rs2: regs[2]}
		case "or":
			inst = Or{Rd: regs[0], Rs1: regs[1], Rs2: regs[2]}
		case "and":
			inst = And{Rd: regs[0], Rs1: regs[1], Rs2: regs[2]}
		}
		codes = append(codes, inst.Encode())
	case "addi", "slli":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var rd, rs1, imm uint32
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		rs1, err = asm.register(words[2])
		if err != nil {
			return
		}
		if op == "addi" {
			imm, err = asm.immediate12(words[3])
			if err != nil {
				return
			}
			codes = append(codes, Addi{Rd: rd, Rs1: rs1, Imm: imm}.Encode())
		} else {
			imm, err = asm.immediate(words[3], 0, 31)
			if err != nil {
				return
			}
			codes = append(codes, Slli{Rd: rd, Rs1: rs1, Imm: imm}.Encode())
		}
	case "lw", "sw":
		err = argCount(words, 2)
		if err != nil {
			return
		}
		var reg, rs1, imm uint32
		reg, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, rs1, err = asm.address(words[2])
		if err != nil {
			return
		}
		if op == "lw" {
			codes = append(codes, Lw{Rd: reg, Rs1: rs1, Imm: imm}.Encode())
		} else {
			codes = append(codes, Sw{Rs1: rs1, Rs2: reg, Imm: imm}.Encode())
		}
	case "beq":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var rs1, rs2, code uint32
		rs1, err = asm.register(words[1])
		if err != nil {
			return
		}
		rs2, err = asm.register(words[2])
		if err != nil {
			return
		}
		code, label, err = asm.branch(rs1, rs2, words[3])
		if err != nil {
			return
		}
		codes = append(codes, code)
	case "nop":
		err = argCount(words, 0)
		if err != nil {
			return
		}
		codes = append(codes, Nop{}.Encode())
	case "halt":
		err = argCount(words, 0)
		if err != nil {
			return
		}
		for range NOP_LIMIT {
			codes = append(codes, Nop{}.Encode())
		}
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int64
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			codes = append(codes, uint32(value))
		}
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
