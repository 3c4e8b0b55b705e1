package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	seen := map[string]bool{}
	for n := range 32 {
		op := Mnemonic(n)
		name := op.String()
		assert.NotEmpty(name, "%d", n)
		assert.False(seen[name], name)
		seen[name] = true

		found, ok := LookupMnemonic(name)
		assert.True(ok, name)
		assert.Equal(op, found)
	}

	op, ok := LookupMnemonic("JCondAddr")
	assert.True(ok)
	assert.Equal(OP_JCONDADDR, op)

	_, ok = LookupMnemonic("halt")
	assert.False(ok)

	assert.Equal(FORMAT_JUMP_REG, OP_JCONDRIN.Format())
	assert.Equal(FORMAT_ADDRESS, OP_JCONDADDR.Format())
}

func TestOpcodeEncode(t *testing.T) {
	table := [](struct {
		code   Code
		word   uint16
		disasm string
	}){
		{MakeCodePair(OP_GRT, 1, 2), 0xC940, "GRT R1, R2"},
		{MakeCodeAddress(OP_JMPADDR, 0x00A), 0xA80A, "JMPADDR 00A"},
		{MakeCodeOperand(OP_LOAD, 1, 0x02), 0x0102, "LOAD R1, 02"},
		{MakeCodeOperand(OP_STORE, 2, 0x06), 0x1A06, "STORE R2, 06"},
		{MakeCodeOperand(OP_LOADIM, 4, 0x0F), 0x0C0F, "LOADIM R4, #0F"},
		{MakeCodeAddress(OP_JCONDADDR, 0x01C), 0xB81C, "JCONDADDR 01C"},
		{MakeCodeOperand(OP_LOADIM, 3, 0x08), 0x0B08, "LOADIM R3, #08"},
		{MakeCodeTriple(OP_ADD, 1, 2, 3), 0x394C, "ADD R1, R2, R3"},
		{MakeCodeReg(OP_PUSH, 1), 0x2100, "PUSH R1"},
		{MakeCodeReg(OP_JCONDRIN, 7), 0xB700, "JCONDRIN R7"},
		{MakeCodeOperand(OP_LOOP, 2, 0xFE), 0xC2FE, "LOOP R2, FE"},
		{MakeCodeAddress(OP_CALL, 0x7FF), 0xF7FF, "CALL 7FF"},
		{MakeCodeNone(OP_NOP), 0xE800, "NOP"},
		{MakeCodeNone(OP_RETURN), 0xF800, "RETURN"},
		{Code(0x0000), 0x0000, "LOAD R0, 00"},
	}

	for _, entry := range table {
		assert := assert.New(t)

		assert.Equal(entry.word, uint16(entry.code), entry.disasm)
		assert.Equal(entry.disasm, entry.code.String())
		assert.Equal([]uint8{uint8(entry.word >> 8), uint8(entry.word)}, entry.code.Bytes())
	}
}

func TestOpcodeDecode(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x394C)
	assert.Equal(OP_ADD, code.Mnemonic())
	assert.Equal(FORMAT_TRIPLE, code.Format())
	assert.Equal(Register(1), code.Ra())
	assert.Equal(Register(2), code.Rb())
	assert.Equal(Register(3), code.Rc())

	code = Code(0xAFFF)
	assert.Equal(OP_JMPADDR, code.Mnemonic())
	assert.Equal(uint16(0x7FF), code.Address())
	assert.Equal(uint8(0xFF), code.Operand())
	assert.Equal(Register(7), code.Ra())
}
