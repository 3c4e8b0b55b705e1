package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/microsim/internal"
)

// Mnemonic is the 5-bit opcode index.
type Mnemonic uint16

const (
	OP_LOAD      = Mnemonic(0)
	OP_LOADIM    = Mnemonic(1)
	OP_POP       = Mnemonic(2)
	OP_STORE     = Mnemonic(3)
	OP_PUSH      = Mnemonic(4)
	OP_LOADRIND  = Mnemonic(5)
	OP_STORERIND = Mnemonic(6)
	OP_ADD       = Mnemonic(7)
	OP_SUB       = Mnemonic(8)
	OP_ADDIM     = Mnemonic(9)
	OP_SUBIM     = Mnemonic(10)
	OP_AND       = Mnemonic(11)
	OP_OR        = Mnemonic(12)
	OP_XOR       = Mnemonic(13)
	OP_NOT       = Mnemonic(14)
	OP_NEG       = Mnemonic(15)
	OP_SHIFTR    = Mnemonic(16)
	OP_SHIFTL    = Mnemonic(17)
	OP_ROTAR     = Mnemonic(18)
	OP_ROTAL     = Mnemonic(19)
	OP_JMPRIND   = Mnemonic(20)
	OP_JMPADDR   = Mnemonic(21)
	OP_JCONDRIN  = Mnemonic(22)
	OP_JCONDADDR = Mnemonic(23)
	OP_LOOP      = Mnemonic(24)
	OP_GRT       = Mnemonic(25)
	OP_GRTEQ     = Mnemonic(26)
	OP_EQ        = Mnemonic(27)
	OP_NEQ       = Mnemonic(28)
	OP_NOP       = Mnemonic(29)
	OP_CALL      = Mnemonic(30)
	OP_RETURN    = Mnemonic(31)
)

// CodeFormat is the operand layout of an instruction word.
type CodeFormat int

const (
	FORMAT_TRIPLE   = CodeFormat(iota) // opcode(5) Ra(3) Rb(3) Rc(3) pad(2)
	FORMAT_PAIR                        // opcode(5) Ra(3) Rb(3) pad(5)
	FORMAT_JUMP_REG                    // opcode(5) Ra(3) pad(8)
	FORMAT_OPERAND                     // opcode(5) Ra(3) operand(8)
	FORMAT_REG                         // opcode(5) Ra(3) pad(8)
	FORMAT_STORE                       // opcode(5) Rsrc(3) address(8)
	FORMAT_ADDRESS                     // opcode(5) address(11)
	FORMAT_NONE                        // opcode(5) pad(11)
)

const (
	OPERAND_MASK  = 0xff  // Mask of an 8-bit operand field.
	ADDRESS_FIELD = 0x7ff // Mask of an 11-bit address field.
)

type mnemonicInfo struct {
	name      string
	format    CodeFormat
	immediate bool // operand renders as #imm rather than an address
}

var mnemonicTable = [32]mnemonicInfo{
	OP_LOAD:      {"load", FORMAT_OPERAND, false},
	OP_LOADIM:    {"loadim", FORMAT_OPERAND, true},
	OP_POP:       {"pop", FORMAT_REG, false},
	OP_STORE:     {"store", FORMAT_STORE, false},
	OP_PUSH:      {"push", FORMAT_REG, false},
	OP_LOADRIND:  {"loadrind", FORMAT_PAIR, false},
	OP_STORERIND: {"storerind", FORMAT_PAIR, false},
	OP_ADD:       {"add", FORMAT_TRIPLE, false},
	OP_SUB:       {"sub", FORMAT_TRIPLE, false},
	OP_ADDIM:     {"addim", FORMAT_OPERAND, true},
	OP_SUBIM:     {"subim", FORMAT_OPERAND, true},
	OP_AND:       {"and", FORMAT_TRIPLE, false},
	OP_OR:        {"or", FORMAT_TRIPLE, false},
	OP_XOR:       {"xor", FORMAT_TRIPLE, false},
	OP_NOT:       {"not", FORMAT_PAIR, false},
	OP_NEG:       {"neg", FORMAT_PAIR, false},
	OP_SHIFTR:    {"shiftr", FORMAT_TRIPLE, false},
	OP_SHIFTL:    {"shiftl", FORMAT_TRIPLE, false},
	OP_ROTAR:     {"rotar", FORMAT_TRIPLE, false},
	OP_ROTAL:     {"rotal", FORMAT_TRIPLE, false},
	OP_JMPRIND:   {"jmprind", FORMAT_JUMP_REG, false},
	OP_JMPADDR:   {"jmpaddr", FORMAT_ADDRESS, false},
	OP_JCONDRIN:  {"jcondrin", FORMAT_JUMP_REG, false},
	OP_JCONDADDR: {"jcondaddr", FORMAT_ADDRESS, false},
	OP_LOOP:      {"loop", FORMAT_OPERAND, false},
	OP_GRT:       {"grt", FORMAT_PAIR, false},
	OP_GRTEQ:     {"grteq", FORMAT_PAIR, false},
	OP_EQ:        {"eq", FORMAT_PAIR, false},
	OP_NEQ:       {"neq", FORMAT_PAIR, false},
	OP_NOP:       {"nop", FORMAT_NONE, false},
	OP_CALL:      {"call", FORMAT_ADDRESS, false},
	OP_RETURN:    {"return", FORMAT_NONE, false},
}

// mnemonicMap maps lower-case mnemonic names to opcodes.
var mnemonicMap = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, len(mnemonicTable))
	for n, info := range mnemonicTable {
		m[info.name] = Mnemonic(n)
	}
	return m
}()

// LookupMnemonic finds a mnemonic by name, ignoring case.
func LookupMnemonic(name string) (op Mnemonic, ok bool) {
	op, ok = mnemonicMap[strings.ToLower(name)]
	return
}

// String returns the lower-case mnemonic name.
func (op Mnemonic) String() string {
	return mnemonicTable[op&0x1f].name
}

// Format returns the operand layout of the mnemonic.
func (op Mnemonic) Format() CodeFormat {
	return mnemonicTable[op&0x1f].format
}

// Register is a general purpose register index.
type Register uint8

func (reg Register) String() string {
	return fmt.Sprintf("R%d", uint8(reg))
}

// Code is a single 16-bit instruction word.
type Code uint16

func makeCode(op Mnemonic, bits uint16) Code {
	return Code((uint16(op&0x1f) << 11) | (bits & 0x7ff))
}

// MakeCodeTriple creates a register-triple instruction.
func MakeCodeTriple(op Mnemonic, ra, rb, rc Register) Code {
	return makeCode(op, (uint16(ra&7)<<8)|(uint16(rb&7)<<5)|(uint16(rc&7)<<2))
}

// MakeCodePair creates a register-pair instruction.
func MakeCodePair(op Mnemonic, ra, rb Register) Code {
	return makeCode(op, (uint16(ra&7)<<8)|(uint16(rb&7)<<5))
}

// MakeCodeReg creates a single register instruction (push, pop, jmprind, jcondrin).
func MakeCodeReg(op Mnemonic, ra Register) Code {
	return makeCode(op, uint16(ra&7)<<8)
}

// MakeCodeOperand creates a register plus 8-bit operand instruction.
func MakeCodeOperand(op Mnemonic, ra Register, operand uint8) Code {
	return makeCode(op, (uint16(ra&7)<<8)|uint16(operand))
}

// MakeCodeAddress creates an 11-bit address instruction.
func MakeCodeAddress(op Mnemonic, addr uint16) Code {
	return makeCode(op, addr&ADDRESS_FIELD)
}

// MakeCodeNone creates an instruction without operands.
func MakeCodeNone(op Mnemonic) Code {
	return makeCode(op, 0)
}

// Mnemonic returns the opcode from the top 5 bits.
func (code Code) Mnemonic() Mnemonic {
	return Mnemonic(internal.Field(uint16(code), 11, 5))
}

// Format returns the operand layout of the instruction.
func (code Code) Format() CodeFormat {
	return code.Mnemonic().Format()
}

// Ra returns the first register field.
func (code Code) Ra() Register {
	return Register(internal.Field(uint16(code), 8, 3))
}

// Rb returns the second register field.
func (code Code) Rb() Register {
	return Register(internal.Field(uint16(code), 5, 3))
}

// Rc returns the third register field.
func (code Code) Rc() Register {
	return Register(internal.Field(uint16(code), 2, 3))
}

// Operand returns the 8-bit operand field.
func (code Code) Operand() uint8 {
	return uint8(internal.Field(uint16(code), 0, 8))
}

// Address returns the 11-bit address field.
func (code Code) Address() uint16 {
	return internal.Field(uint16(code), 0, 11)
}

// Bytes returns the instruction word high byte first.
func (code Code) Bytes() []uint8 {
	return []uint8{uint8(code >> 8), uint8(code)}
}

// String returns the disassembly of the instruction.
func (code Code) String() (out string) {
	op := code.Mnemonic()
	name := strings.ToUpper(op.String())

	switch op.Format() {
	case FORMAT_TRIPLE:
		out = fmt.Sprintf("%v %v, %v, %v", name, code.Ra(), code.Rb(), code.Rc())
	case FORMAT_PAIR:
		out = fmt.Sprintf("%v %v, %v", name, code.Ra(), code.Rb())
	case FORMAT_JUMP_REG, FORMAT_REG:
		out = fmt.Sprintf("%v %v", name, code.Ra())
	case FORMAT_OPERAND:
		if mnemonicTable[op].immediate {
			out = fmt.Sprintf("%v %v, #%02X", name, code.Ra(), code.Operand())
		} else {
			out = fmt.Sprintf("%v %v, %02X", name, code.Ra(), code.Operand())
		}
	case FORMAT_STORE:
		out = fmt.Sprintf("%v %v, %02X", name, code.Ra(), code.Operand())
	case FORMAT_ADDRESS:
		out = fmt.Sprintf("%v %03X", name, code.Address())
	case FORMAT_NONE:
		out = name
	}

	return
}
