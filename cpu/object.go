package cpu

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	SOURCE_EXT   = ".asm" // Assembly source file extension.
	OBJECT_EXT   = ".obj" // Object file extension.
	OBJECT_LINES = 50     // Minimum lines written to an object file.
)

// CheckExtension fails with ErrUnsupportedFileType unless path ends in ext.
func CheckExtension(path string, ext string) (err error) {
	if len(path) <= len(ext) || !strings.EqualFold(filepath.Ext(path), ext) {
		err = ErrUnsupportedFileType(path)
	}
	return
}

// ReadObject loads an object file into the memory bank, one word per line
// starting at address 0. It returns one past the last address written.
func ReadObject(input io.Reader, mem *Memory) (end int, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		line := scanner.Text()
		lineno++

		text := strings.Join(strings.Fields(line), "")
		if len(text) == 0 {
			continue
		}

		if len(text) != 4 {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrObjectSyntax}
			return
		}

		var word uint64
		word, err = strconv.ParseUint(text, 16, 16)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrObjectSyntax}
			return
		}

		if end+WORD_SIZE > MEMORY_SIZE {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrAddress(end)}
			return
		}

		mem.SetWord(uint16(end), uint16(word))
		end += WORD_SIZE
	}

	err = scanner.Err()

	return
}

// WriteObject writes the memory bank as an object file, through the last
// non-zero word and at least OBJECT_LINES lines.
func WriteObject(output io.Writer, mem *Memory) (err error) {
	lines := OBJECT_LINES
	for addr := 0; addr < MEMORY_SIZE; addr += WORD_SIZE {
		if mem.Word(uint16(addr)) != 0 {
			lines = max(lines, addr/WORD_SIZE+1)
		}
	}

	w := bufio.NewWriter(output)
	for n := range lines {
		_, err = fmt.Fprintf(w, "%04X\n", mem.Word(uint16(n*WORD_SIZE)))
		if err != nil {
			return
		}
	}

	err = w.Flush()

	return
}
