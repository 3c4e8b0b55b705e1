package cpu

import (
	"errors"
	"log"
	"math/bits"
	"time"
)

// Cpu is the fetch-decode-execute engine over a Machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	*Machine // Architectural state.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU executing on the machine state.
func NewCpu(m *Machine) (cpu *Cpu) {
	if m == nil {
		m = &Machine{}
	}

	cpu = &Cpu{
		Machine: m,
	}

	return
}

// Reset the CPU state. Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.Ticks = 0
}

// Tick executes a single CPU instruction cycle. If deadline is not zero
// and has already passed, ErrInfiniteLoop is returned before the fetch.
func (cpu *Cpu) Tick(deadline time.Time) (err error) {
	if !deadline.IsZero() && time.Now().After(deadline) {
		err = ErrInfiniteLoop
		return
	}

	cpu.Ir = cpu.Memory.Word(cpu.Pc)

	err = cpu.Execute(Code(cpu.Ir))
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Run executes until the program counter stops changing, or an error.
func (cpu *Cpu) Run(deadline time.Time) (err error) {
	for {
		pc := cpu.Pc
		err = cpu.Tick(deadline)
		if err != nil {
			return
		}
		if cpu.Pc == pc {
			if cpu.Verbose {
				log.Printf("cpu: halted at %03X", pc)
			}
			return
		}
	}
}

// shift moves value by count positions, to zero once count reaches 8.
func shift(value uint8, count uint8, left bool) uint8 {
	if count >= 8 {
		return 0
	}
	if left {
		return value << count
	}
	return value >> count
}

// Execute executes a single decoded instruction at the current pc.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%03X: %v", cpu.Pc, code)
	}

	reg := &cpu.R
	mem := &cpu.Memory
	ra, rb, rc := code.Ra(), code.Rb(), code.Rc()

	next_pc := (cpu.Pc + WORD_SIZE) & ADDRESS_MASK

	switch code.Mnemonic() {
	case OP_LOAD:
		reg[ra] = mem[code.Operand()]
	case OP_LOADIM:
		reg[ra] = code.Operand()
	case OP_POP:
		reg[ra] = cpu.Pop()
	case OP_STORE:
		mem[code.Operand()] = reg[ra]
	case OP_PUSH:
		cpu.Push(reg[ra])
	case OP_LOADRIND:
		reg[ra] = mem[reg[rb]]
	case OP_STORERIND:
		mem[reg[ra]] = reg[rb]
	case OP_ADD:
		reg[ra] = reg[rb] + reg[rc]
	case OP_SUB:
		reg[ra] = reg[rb] - reg[rc]
	case OP_ADDIM:
		reg[ra] += code.Operand()
	case OP_SUBIM:
		reg[ra] -= code.Operand()
	case OP_AND:
		reg[ra] = reg[rb] & reg[rc]
	case OP_OR:
		reg[ra] = reg[rb] | reg[rc]
	case OP_XOR:
		reg[ra] = reg[rb] ^ reg[rc]
	case OP_NOT:
		reg[ra] = ^reg[rb]
	case OP_NEG:
		reg[ra] = -reg[rb]
	case OP_SHIFTR:
		reg[ra] = shift(reg[rb], reg[rc], false)
	case OP_SHIFTL:
		reg[ra] = shift(reg[rb], reg[rc], true)
	case OP_ROTAR:
		reg[ra] = bits.RotateLeft8(reg[rb], -int(reg[rc]%8))
	case OP_ROTAL:
		reg[ra] = bits.RotateLeft8(reg[rb], int(reg[rc]%8))
	case OP_JMPRIND:
		next_pc = uint16(reg[ra])
	case OP_JMPADDR:
		next_pc = code.Address()
	case OP_JCONDRIN:
		if cpu.Cond {
			next_pc = uint16(reg[ra])
		}
	case OP_JCONDADDR:
		if cpu.Cond {
			next_pc = code.Address()
		}
	case OP_LOOP:
		reg[ra]--
		if reg[ra] != 0 {
			next_pc = uint16(code.Operand())
		}
	case OP_GRT:
		cpu.Cond = reg[ra] > reg[rb]
	case OP_GRTEQ:
		cpu.Cond = reg[ra] >= reg[rb]
	case OP_EQ:
		cpu.Cond = reg[ra] == reg[rb]
	case OP_NEQ:
		cpu.Cond = reg[ra] != reg[rb]
	case OP_NOP:
		// pass
	case OP_CALL:
		cpu.PushAddress(next_pc)
		next_pc = code.Address()
	case OP_RETURN:
		next_pc = cpu.PopAddress()
	}

	if reg[0] != 0 {
		err = ErrHardwareInvariant
		return
	}

	cpu.Pc = next_pc

	return
}
