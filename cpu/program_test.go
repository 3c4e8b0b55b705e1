package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(fixtureMayor, "\n")))
	if !assert.NoError(err) {
		return
	}

	table := [](struct {
		addr   uint16
		lineno int
		index  int
	}){
		{0x00, 1, 0},
		{0x01, 1, 1},
		{0x02, 3, 0},
		{0x04, 5, 0},
		{0x0A, 11, 0},
		{0x0F, 13, 1},
		{0x1A, 21, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.addr)
		if !assert.NotNil(dbg.Opcode, "%03X", entry.addr) {
			continue
		}
		assert.Equal(entry.lineno, dbg.LineNo, "%03X", entry.addr)
		assert.Equal(entry.index, dbg.Index, "%03X", entry.addr)
		assert.Equal(entry.lineno, prog.LineNo(entry.addr))
	}

	dbg := prog.Debug(0x03)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, prog.LineNo(0x800))
}

func TestProgram_Overwrite(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"loadim r1, 1",
		"org 0",
		"patch db 2",
	}, "\n")))
	if !assert.NoError(err) {
		return
	}

	mem := &Memory{}
	prog.Store(mem)
	assert.Equal(uint16(0x0201), mem.Word(0))

	assert.Equal(3, prog.LineNo(0))
	assert.Equal(1, prog.LineNo(1))
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(fixtureMayor, "\n")))
	if !assert.NoError(err) {
		return
	}

	var addrs []uint16
	for addr, code := range prog.Codes() {
		addrs = append(addrs, addr)
		assert.NotEmpty(code.String())
	}

	assert.Equal([]uint16{0x00, 0x0A, 0x0C, 0x0E, 0x10, 0x12, 0x14, 0x16, 0x18, 0x1A}, addrs)

	var count int
	for range prog.Codes() {
		count++
		break
	}
	assert.Equal(1, count)
}
