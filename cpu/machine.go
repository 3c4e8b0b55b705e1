package cpu

import (
	"fmt"
)

const (
	MEMORY_SIZE    = 4096  // Bytes in the memory bank.
	ADDRESS_MASK   = 0xfff // Mask of a 12-bit memory address.
	REGISTER_COUNT = 8     // General purpose registers r0-r7.
	WORD_SIZE      = 2     // Bytes per instruction word.
)

// Memory is the flat byte-addressed memory bank.
type Memory [MEMORY_SIZE]uint8

// Word returns the 16-bit word at addr, high byte first.
func (mem *Memory) Word(addr uint16) uint16 {
	hi := mem[addr&ADDRESS_MASK]
	lo := mem[(addr+1)&ADDRESS_MASK]
	return (uint16(hi) << 8) | uint16(lo)
}

// SetWord stores a 16-bit word at addr, high byte first.
func (mem *Memory) SetWord(addr uint16, word uint16) {
	mem[addr&ADDRESS_MASK] = uint8(word >> 8)
	mem[(addr+1)&ADDRESS_MASK] = uint8(word)
}

// Hexify returns every cell as a 2 digit upper-case hex string.
func (mem *Memory) Hexify() (cells []string) {
	cells = make([]string, len(mem))
	for n, value := range mem {
		cells[n] = fmt.Sprintf("%02X", value)
	}
	return
}

// Disassemble renders the instruction word at addr.
func (mem *Memory) Disassemble(addr uint16) string {
	return Code(mem.Word(addr)).String()
}

// Registers is the register file.
type Registers struct {
	R    [REGISTER_COUNT]uint8 // General purpose registers.
	Pc   uint16                // Program counter (12 bits).
	Sp   uint16                // Stack pointer (12 bits).
	Ir   uint16                // Last fetched instruction.
	Cond bool                  // Condition flag.
}

// RegisterNames lists the register file in display order.
var RegisterNames = []string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"pc", "sp", "ir", "cond",
}

// Snapshot returns the register file as fixed-width hex strings.
func (reg *Registers) Snapshot() (snap map[string]string) {
	snap = make(map[string]string, len(RegisterNames))
	for n, value := range reg.R {
		snap[RegisterNames[n]] = fmt.Sprintf("%02X", value)
	}
	snap["pc"] = fmt.Sprintf("%03X", reg.Pc&ADDRESS_MASK)
	snap["sp"] = fmt.Sprintf("%03X", reg.Sp&ADDRESS_MASK)
	snap["ir"] = fmt.Sprintf("%04X", reg.Ir)
	snap["cond"] = "0"
	if reg.Cond {
		snap["cond"] = "1"
	}
	return
}

// Machine is the complete architectural state shared by the assembler
// and the CPU.
type Machine struct {
	Memory Memory
	Registers
}

// Clear zeroes the memory bank and the register file.
func (m *Machine) Clear() {
	clear(m.Memory[:])
	m.Registers = Registers{}
}

// String returns the register file as text.
func (m *Machine) String() (text string) {
	snap := m.Registers.Snapshot()
	for _, reg := range RegisterNames {
		text += fmt.Sprintf("% 5s: %v\n", reg, snap[reg])
	}
	return
}
