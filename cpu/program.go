package cpu

import (
	"iter"
)

// Opcode represents a line of assembled source with its address and
// generated bytes. Instructions carry a Code, db lines carry Data.
type Opcode struct {
	LineNo    int      // Source line number.
	Line      string   // Source text.
	Addr      int      // Address of the first byte.
	Words     []string // Source words, without label and comment.
	Code      Code     // Instruction word, when Data is nil.
	Data      []uint8  // Raw bytes of a db line.
	LinkLabel string   // Operand resolved by the link pass.
}

// IsData is true for raw db bytes.
func (op *Opcode) IsData() bool {
	return op.Data != nil
}

// Bytes returns the bytes the opcode occupies in memory.
func (op *Opcode) Bytes() []uint8 {
	if op.IsData() {
		return op.Data
	}
	return op.Code.Bytes()
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that placed the byte at addr. Later opcodes
// overwrite earlier ones, so the search runs backwards.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n := len(prog.Opcodes) - 1; n >= 0; n-- {
		op := &prog.Opcodes[n]
		size := len(op.Bytes())
		if int(addr) >= op.Addr && int(addr) < op.Addr+size {
			dbg = Debug{
				Opcode: op,
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// LineNo returns the source line for addr, or 0 if unknown.
func (prog *Program) LineNo(addr uint16) int {
	dbg := prog.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// End returns one past the highest address written by the program.
func (prog *Program) End() (end int) {
	for _, op := range prog.Opcodes {
		end = max(end, op.Addr+len(op.Bytes()))
	}
	return
}

// Store writes the program into the memory bank.
func (prog *Program) Store(mem *Memory) {
	for _, op := range prog.Opcodes {
		for n, value := range op.Bytes() {
			mem[(op.Addr+n)&ADDRESS_MASK] = value
		}
	}
}

// Codes iterates over the instructions of the program by address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if op.IsData() {
				continue
			}
			if !yield(uint16(op.Addr), op.Code) {
				return
			}
		}
	}
}
