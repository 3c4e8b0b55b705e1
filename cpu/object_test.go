package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectWrite(t *testing.T) {
	assert := assert.New(t)

	_, mem, err := assemble(t, fixtureMayor...)
	if !assert.NoError(err) {
		return
	}

	var buf bytes.Buffer
	err = WriteObject(&buf, mem)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(OBJECT_LINES, len(lines))
	assert.Equal("A80A", lines[0])
	assert.Equal("0500", lines[1])
	assert.Equal("0102", lines[5])
	assert.Equal("A81A", lines[13])
	assert.Equal("0000", lines[49])

	loaded := &Memory{}
	end, err := ReadObject(&buf, loaded)
	assert.NoError(err)
	assert.Equal(OBJECT_LINES*WORD_SIZE, end)
	assert.Equal(mem, loaded)
}

func TestObjectWriteLong(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.SetWord(0x100, 0xBEEF)

	var buf bytes.Buffer
	err := WriteObject(&buf, mem)
	assert.NoError(err)
	assert.Equal(0x100/WORD_SIZE+1, strings.Count(buf.String(), "\n"))
	assert.True(strings.HasSuffix(buf.String(), "BEEF\n"))
}

func TestObjectRead(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem[0x10] = 0x77

	end, err := ReadObject(strings.NewReader("0102\n\n  c9 40 \nA80A"), mem)
	assert.NoError(err)
	assert.Equal(6, end)
	assert.Equal(uint16(0x0102), mem.Word(0))
	assert.Equal(uint16(0xC940), mem.Word(2))
	assert.Equal(uint16(0xA80A), mem.Word(4))

	// Loading does not clear the rest of the bank.
	assert.Equal(uint8(0x77), mem[0x10])
}

func TestObjectReadError(t *testing.T) {
	table := [](struct {
		text   string
		lineno int
		err    error
	}){
		{"12345", 1, ErrObjectSyntax},
		{"0000\n12", 2, ErrObjectSyntax},
		{"XYZW", 1, ErrObjectSyntax},
		{strings.Repeat("0000\n", MEMORY_SIZE/WORD_SIZE) + "0000", MEMORY_SIZE/WORD_SIZE + 1, ErrMemorySize},
	}

	for _, entry := range table {
		assert := assert.New(t)

		_, err := ReadObject(strings.NewReader(entry.text), &Memory{})
		assert.ErrorIs(err, entry.err)

		var se *ErrSyntax
		if assert.True(errors.As(err, &se)) {
			assert.Equal(entry.lineno, se.LineNo)
		}
	}
}

func TestCheckExtension(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(CheckExtension("prog.asm", SOURCE_EXT))
	assert.NoError(CheckExtension("dir/PROG.OBJ", OBJECT_EXT))

	for _, path := range []string{"prog.obj", "prog", ".asm", "prog.asm.txt"} {
		err := CheckExtension(path, SOURCE_EXT)
		assert.Equal(ErrUnsupportedFileType(path), err, path)
	}
}
