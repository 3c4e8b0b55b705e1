package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWord(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.SetWord(0x10, 0x1234)
	assert.Equal(uint8(0x12), mem[0x10])
	assert.Equal(uint8(0x34), mem[0x11])
	assert.Equal(uint16(0x1234), mem.Word(0x10))

	mem.SetWord(0xFFF, 0xABCD)
	assert.Equal(uint8(0xAB), mem[0xFFF])
	assert.Equal(uint8(0xCD), mem[0x000])
	assert.Equal(uint16(0xABCD), mem.Word(0xFFF))

	assert.Equal("JMPADDR 00A", (&Memory{0xA8, 0x0A}).Disassemble(0))
}

func TestMemoryHexify(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem[1] = 0xAB

	cells := mem.Hexify()
	assert.Equal(MEMORY_SIZE, len(cells))
	assert.Equal("00", cells[0])
	assert.Equal("AB", cells[1])
}

func TestMachineClear(t *testing.T) {
	assert := assert.New(t)

	m := &Machine{}
	m.Memory[0x123] = 1
	m.R[7] = 0xFE
	m.Pc = 0x456
	m.Sp = 0xFFF
	m.Ir = 0xBEEF
	m.Cond = true

	snap := m.Snapshot()
	assert.Equal("FE", snap["r7"])
	assert.Equal("456", snap["pc"])
	assert.Equal("FFF", snap["sp"])
	assert.Equal("BEEF", snap["ir"])
	assert.Equal("1", snap["cond"])

	m.Clear()
	assert.Equal(Memory{}, m.Memory)

	snap = m.Snapshot()
	assert.Equal(len(RegisterNames), len(snap))
	assert.Equal("00", snap["r0"])
	assert.Equal("00", snap["r7"])
	assert.Equal("000", snap["pc"])
	assert.Equal("000", snap["sp"])
	assert.Equal("0000", snap["ir"])
	assert.Equal("0", snap["cond"])

	assert.Contains(m.String(), "   pc: 000\n")
}
