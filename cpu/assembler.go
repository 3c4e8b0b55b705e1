// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/microsim/internal"
)

const (
	INDENT = "    " // The only legal indentation.
)

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// regMap is a map of register names to register indexes.
var regMap = map[string]Register{
	"r0": 0,
	"r1": 1,
	"r2": 2,
	"r3": 3,
	"r4": 4,
	"r5": 5,
	"r6": 6,
	"r7": 7,
}

// Assembler is a two pass assembler for the MicroSim instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefined constants.
	Label     map[string]int    // Map of labels and variables to addresses.
	Constant  map[string]int    // Map of named constants.

	pc     int    // Write cursor.
	lineno int    // Line being parsed.
	line   string // Source text of the line being parsed.
}

// Predefine defines a new constant or redefines an existing one. The value
// is parsed like any other source literal when Parse starts.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Symbols iterates over the constants, then the labels and variables.
func (asm *Assembler) Symbols() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(asm.Constant), maps.All(asm.Label))
}

// ParseFile parses an assembly source file.
func (asm *Assembler) ParseFile(path string) (prog *Program, err error) {
	err = CheckExtension(path, SOURCE_EXT)
	if err != nil {
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return asm.Parse(inf)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	err = asm.reset()
	if err != nil {
		return
	}

	first := true
	afterLabel := false

	for scanner.Scan() {
		text := scanner.Text()
		asm.lineno += 1
		asm.line = text

		if asm.Verbose {
			log.Printf("%v: %v\n", asm.lineno, text)
		}

		code, _, _ := strings.Cut(text, "//")
		code = strings.TrimRight(code, " \t\r")
		if len(strings.TrimSpace(code)) == 0 {
			continue
		}

		var indented bool
		indented, err = checkIndent(text, code)
		if err == nil {
			isLabel := strings.Contains(reCharacter.ReplaceAllString(code, "0"), ":")
			switch {
			case first && indented:
				err = ErrIndentFirst
			case isLabel && indented:
				err = ErrIndentLabel
			case isDirective(code) && indented:
				err = ErrIndentDirective
			case afterLabel && !indented:
				err = ErrIndentBody
			}
			first = false
			afterLabel = isLabel
		}
		if err != nil {
			err = &ErrIndentation{LineNo: asm.lineno, Line: text, Err: err}
			return
		}

		err = asm.parseLine(strings.TrimSpace(code))
		if err != nil {
			err = &ErrSyntax{LineNo: asm.lineno, Line: text, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: asm.Opcode,
	}

	return
}

// reset clears the symbol tables and cursor for a new assembly.
func (asm *Assembler) reset() (err error) {
	asm.Opcode = nil
	asm.pc = 0
	asm.lineno = 0

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)

	asm.Constant = make(map[string]int, len(asm.predefine))
	for _, name := range slices.Sorted(maps.Keys(asm.predefine)) {
		str := asm.predefine[name]
		var value int
		value, err = parseNumber(str)
		if err != nil {
			err = &ErrSyntax{Line: name + "=" + str, Err: err}
			return
		}
		asm.Constant[name] = value
	}

	return
}

// checkIndent validates the leading whitespace of a non-blank line.
func checkIndent(text string, code string) (indented bool, err error) {
	if strings.ContainsRune(text, '\t') {
		err = ErrIndentTab
		return
	}

	spaces := len(code) - len(strings.TrimLeft(code, " "))
	switch spaces {
	case 0:
	case len(INDENT):
		indented = true
	default:
		err = ErrIndentPartial
	}

	return
}

// isDirective is true for org, const and db lines.
func isDirective(code string) bool {
	words := strings.Fields(code)
	switch {
	case len(words) > 0 && (strings.EqualFold(words[0], "org") || strings.EqualFold(words[0], "const")):
		return true
	case len(words) > 1 && strings.EqualFold(words[1], "db"):
		return true
	}
	return false
}

// parseNumber parses a hex literal, with optional '#' or '0x' prefix.
func parseNumber(word string) (value int, err error) {
	str := strings.TrimPrefix(word, "#")
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")
	if len(str) > 2 && (str[:2] == "0x" || str[:2] == "0X") {
		str = str[2:]
	}

	v64, err := strconv.ParseInt(str, 16, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if negative {
		value = -value
	}

	return
}

// isPrefixed is true for literals that can never be a symbol.
func isPrefixed(word string) bool {
	return strings.HasPrefix(word, "#") || strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X")
}

// valueOf resolves a word against the symbol tables, then as a literal.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	value, ok := asm.Label[word]
	if ok {
		return
	}

	value, ok = asm.Constant[word]
	if ok {
		return
	}

	value, err = parseNumber(word)
	if err != nil && reIdentifier.MatchString(word) {
		err = ErrLabelMissing(word)
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(asm.lineno),
	}
	for key, v := range asm.Symbols() {
		pred[key] = starlark.MakeInt(v)
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
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffff {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// expand substitutes character literals and $(...) expressions.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\x00"
			default:
				return word
			}
		}
		return fmt.Sprintf("0x%02x", str[0])
	})

	out = reExpression.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = errors.Join(ErrParseExpression(str[2:len(str)-1]), _err)
		}
		return fmt.Sprintf("0x%x", value)
	})

	return
}

// align corrects the cursor to the next even address.
func (asm *Assembler) align() {
	asm.pc += asm.pc & 1
}

// defined is true if name is already a label, variable or constant.
func (asm *Assembler) defined(name string) bool {
	_, is_label := asm.Label[name]
	_, is_const := asm.Constant[name]
	return is_label || is_const
}

// parseLine evaluates a single stripped, non-blank line of source.
func (asm *Assembler) parseLine(line string) (err error) {
	line, err = asm.expand(line)
	if err != nil {
		return
	}

	label, rest, is_label := strings.Cut(line, ":")
	if !is_label {
		rest = label
		label = ""
	}

	words := strings.Fields(strings.ReplaceAll(rest, ",", " "))

	if is_label {
		label = strings.TrimSpace(label)
		if !reIdentifier.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		if asm.defined(label) {
			err = ErrLabelDuplicate
			return
		}
		asm.align()
		if asm.pc > ADDRESS_MASK {
			err = ErrAddress(asm.pc)
			return
		}
		asm.Label[label] = asm.pc
	}

	if len(words) == 0 {
		return
	}

	switch {
	case strings.EqualFold(words[0], "org"):
		err = asm.parseOrg(words)
	case strings.EqualFold(words[0], "const"):
		err = asm.parseConst(words)
	case len(words) > 1 && strings.EqualFold(words[1], "db"):
		err = asm.parseDb(words)
	default:
		err = asm.parseInstruction(words)
	}

	return
}

// parseOrg handles 'org ADDRESS'.
func (asm *Assembler) parseOrg(words []string) (err error) {
	if len(words) != 2 {
		err = ErrOrgSyntax
		return
	}

	addr, err := asm.valueOf(words[1])
	if err != nil {
		return
	}

	if addr < 0 || addr > ADDRESS_MASK {
		err = ErrAddress(addr)
		return
	}

	asm.pc = addr

	return
}

// parseConst handles 'const NAME VALUE'.
func (asm *Assembler) parseConst(words []string) (err error) {
	if len(words) != 3 || !reIdentifier.MatchString(words[1]) {
		err = ErrConstSyntax
		return
	}

	name := words[1]
	if asm.defined(name) {
		err = ErrConstDuplicate
		return
	}

	value, err := asm.valueOf(words[2])
	if err != nil {
		return
	}

	if value < 0 || value > OPERAND_MASK {
		err = ErrOperandRange
		return
	}

	asm.Constant[name] = value

	return
}

// parseDb handles 'NAME db VALUE...'.
func (asm *Assembler) parseDb(words []string) (err error) {
	name := words[0]
	if len(words) < 3 || !reIdentifier.MatchString(name) {
		err = ErrDbSyntax
		return
	}

	if asm.defined(name) {
		err = ErrLabelDuplicate
		return
	}

	data := make([]uint8, 0, len(words)-2)
	for _, word := range words[2:] {
		var value int
		value, err = asm.valueOf(word)
		if err != nil {
			return
		}
		if value < 0 || value > OPERAND_MASK {
			err = ErrOperandRange
			return
		}
		data = append(data, uint8(value))
	}

	if asm.pc+len(data) > MEMORY_SIZE {
		err = ErrAddress(asm.pc + len(data) - 1)
		return
	}

	asm.Label[name] = asm.pc
	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: asm.lineno,
		Line:   asm.line,
		Addr:   asm.pc,
		Words:  words,
		Data:   data,
	})
	asm.pc += len(data)

	return
}

// getRegisters parses register arguments.
func getRegisters(words []string) (regs []Register, err error) {
	for _, word := range words {
		reg, ok := regMap[strings.ToLower(word)]
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		regs = append(regs, reg)
	}
	return
}

// argCount verifies the number of instruction arguments.
func argCount(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseInstruction encodes an instruction at the corrected cursor.
func (asm *Assembler) parseInstruction(words []string) (err error) {
	op, ok := LookupMnemonic(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	for n, arg := range args {
		args[n] = strings.TrimSuffix(strings.TrimPrefix(arg, "["), "]")
	}

	var code Code
	var operand string
	var regs []Register

	switch op.Format() {
	case FORMAT_TRIPLE:
		if err = argCount(args, 3); err != nil {
			return
		}
		if regs, err = getRegisters(args); err != nil {
			return
		}
		code = MakeCodeTriple(op, regs[0], regs[1], regs[2])
	case FORMAT_PAIR:
		if err = argCount(args, 2); err != nil {
			return
		}
		if regs, err = getRegisters(args); err != nil {
			return
		}
		code = MakeCodePair(op, regs[0], regs[1])
	case FORMAT_JUMP_REG, FORMAT_REG:
		if err = argCount(args, 1); err != nil {
			return
		}
		if regs, err = getRegisters(args); err != nil {
			return
		}
		code = MakeCodeReg(op, regs[0])
	case FORMAT_OPERAND, FORMAT_STORE:
		if err = argCount(args, 2); err != nil {
			return
		}
		reg_arg, value_arg := args[0], args[1]
		if _, is_reg := regMap[strings.ToLower(reg_arg)]; !is_reg && op == OP_STORE {
			// store [addr], Ra
			reg_arg, value_arg = value_arg, reg_arg
		}
		if regs, err = getRegisters([]string{reg_arg}); err != nil {
			return
		}
		code = MakeCodeOperand(op, regs[0], 0)
		operand = value_arg
	case FORMAT_ADDRESS:
		if err = argCount(args, 1); err != nil {
			return
		}
		code = MakeCodeAddress(op, 0)
		operand = args[0]
	case FORMAT_NONE:
		if err = argCount(args, 0); err != nil {
			return
		}
		code = MakeCodeNone(op)
	}

	asm.align()
	if asm.pc+WORD_SIZE > MEMORY_SIZE {
		err = ErrAddress(asm.pc)
		return
	}

	opcode := Opcode{
		LineNo: asm.lineno,
		Line:   asm.line,
		Addr:   asm.pc,
		Words:  words,
		Code:   code,
	}

	if len(operand) != 0 {
		_, is_symbol := asm.Label[operand]
		_, is_const := asm.Constant[operand]
		if is_symbol || is_const || isPrefixed(operand) {
			var value int
			value, err = asm.valueOf(operand)
			if err != nil {
				return
			}
			opcode.Code, err = fitOperand(code, value)
			if err != nil {
				return
			}
		} else {
			// Deferred to the link pass.
			opcode.LinkLabel = operand
		}
	}

	asm.Opcode = append(asm.Opcode, opcode)
	asm.pc += WORD_SIZE

	return
}

// fitOperand places value into the operand field of code.
func fitOperand(code Code, value int) (out Code, err error) {
	op := code.Mnemonic()

	limit := OPERAND_MASK
	if op.Format() == FORMAT_ADDRESS {
		limit = ADDRESS_FIELD
	}

	if value < 0 || value > limit {
		switch op {
		case OP_LOADIM, OP_ADDIM, OP_SUBIM:
			err = ErrOperandRange
		default:
			err = ErrAddress(value)
		}
		return
	}

	out = code | Code(value)

	return
}

// link resolves every deferred operand now that all labels are known.
func (asm *Assembler) link() (err error) {
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		var value int
		value, err = asm.valueOf(op.LinkLabel)
		if err == nil {
			op.Code, err = fitOperand(op.Code, value)
		}
		if err != nil {
			err = &ErrSyntax{LineNo: op.LineNo, Line: op.Line, Err: err}
			return
		}
	}

	return
}
