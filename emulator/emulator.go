// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/ezrec/microsim/cpu"
	"github.com/ezrec/microsim/internal"
	"github.com/ezrec/microsim/io"
)

// Emulator state. CPU + memory-mapped devices + run state.
//
// All methods are safe to call from multiple goroutines; a presentation
// layer may take snapshots while Run is in progress.
type Emulator struct {
	Verbose bool         // If set, enables verbose logging.
	Cpu     *cpu.Cpu     // Reference to the CPU simulation.
	Program *cpu.Program // Reference to the currently loaded program listing.
	Ports   *io.PortMap  // Memory-mapped devices.

	Assembler *cpu.Assembler // Assembler of the last Assemble call.

	mutex   sync.Mutex
	state   State
	fault   error
	defines map[string]string
}

// NewEmulator creates a new, idle emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(&cpu.Machine{}),
		Program: &cpu.Program{},
		Ports:   io.NewPortMap(),
		defines: map[string]string{},
	}

	return
}

// Predefine adds an assembler constant to every following assembly.
func (emu *Emulator) Predefine(name string, value string) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.defines[name] = value
}

// Defines returns an iterator over a snapshot of all of the defines: the
// port addresses, then the user predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	ports := maps.Collect(emu.portDefines())
	defines := maps.Clone(emu.defines)

	return internal.IterSeq2Concat(maps.All(ports), maps.All(defines))
}

// portDefines iterates over the port addresses as assembler literals.
func (emu *Emulator) portDefines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for name, addr := range emu.Ports.All() {
			if !yield(name, fmt.Sprintf("0x%x", addr)) {
				return
			}
		}
	}
}

// Relocate moves a memory-mapped device.
func (emu *Emulator) Relocate(name string, addr int) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.Ports.Verbose = emu.Verbose
	return emu.Ports.Relocate(name, addr)
}

// load resets the machine around a freshly stored memory bank.
func (emu *Emulator) load(prog *cpu.Program) {
	emu.Cpu.Reset()
	emu.Program = prog
	emu.Ports.Rewind()
	emu.fault = nil
	emu.state = STATE_LOADED
}

// Assemble assembles source text over the memory bank. Bytes outside the
// program are kept; call Clear first for an empty bank.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range internal.IterSeq2Concat(emu.portDefines(), maps.All(emu.defines)) {
		asm.Predefine(name, value)
	}
	emu.Assembler = asm

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	prog.Store(&emu.Cpu.Memory)
	emu.load(prog)

	if emu.Verbose {
		log.Printf("emulator: assembled %d bytes", prog.End())
	}

	return
}

// AssembleFile assembles a source file over the memory bank.
func (emu *Emulator) AssembleFile(path string) (err error) {
	err = cpu.CheckExtension(path, cpu.SOURCE_EXT)
	if err != nil {
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return emu.Assemble(inf)
}

// LoadObject loads an object file stream. Memory beyond the object is kept.
func (emu *Emulator) LoadObject(input stdio.Reader) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	end, err := cpu.ReadObject(input, &emu.Cpu.Memory)
	if err != nil {
		return
	}

	emu.load(&cpu.Program{})

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", end)
	}

	return
}

// Load loads an object file.
func (emu *Emulator) Load(path string) (err error) {
	err = cpu.CheckExtension(path, cpu.OBJECT_EXT)
	if err != nil {
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return emu.LoadObject(inf)
}

// WriteObject writes the memory bank as an object file stream.
func (emu *Emulator) WriteObject(output stdio.Writer) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return cpu.WriteObject(output, &emu.Cpu.Memory)
}

// Save writes the memory bank to an object file.
func (emu *Emulator) Save(path string) (err error) {
	err = cpu.CheckExtension(path, cpu.OBJECT_EXT)
	if err != nil {
		return
	}

	outf, err := os.Create(path)
	if err != nil {
		return
	}

	err = emu.WriteObject(outf)
	if err != nil {
		outf.Close()
		return
	}

	return outf.Close()
}

// Clear zeroes the memory bank and registers, and returns to idle.
func (emu *Emulator) Clear() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.Cpu.Machine.Clear()
	emu.Cpu.Reset()
	emu.Program = &cpu.Program{}
	emu.Ports.Rewind()
	emu.fault = nil
	emu.state = STATE_IDLE
}

// State returns the run state.
func (emu *Emulator) State() State {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.state
}

// Ticks returns the total ticks since the program was loaded.
func (emu *Emulator) Ticks() int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.Ticks
}

// Registers returns a snapshot of the register file.
func (emu *Emulator) Registers() map[string]string {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.Snapshot()
}

// Memory returns a snapshot of the memory bank as hex cells.
func (emu *Emulator) Memory() []string {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.Memory.Hexify()
}

// Disassemble renders the instruction at addr.
func (emu *Emulator) Disassemble(addr uint16) string {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.Memory.Disassemble(addr)
}

// LineNo returns the source line number for the instruction at pc.
func (emu *Emulator) LineNo() int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Press queues a hex keypad press.
func (emu *Emulator) Press(key uint8) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Ports.Keypad.Press(key)
}

// Tick performs a single step of the emulator. done is set once the
// program has halted.
func (emu *Emulator) Tick(deadline time.Time) (done bool, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	switch emu.state {
	case STATE_IDLE:
		err = ErrNotLoaded
		return
	case STATE_HALTED:
		done = true
		return
	case STATE_FAULTED:
		err = emu.fault
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose
	emu.state = STATE_RUNNING

	pc := emu.Cpu.Pc
	err = emu.Cpu.Tick(deadline)
	if err != nil {
		err = &ErrRuntime{
			Addr:   int(pc),
			LineNo: emu.Program.LineNo(pc),
			Err:    err,
		}
		emu.fault = err
		emu.state = STATE_FAULTED
		return
	}

	emu.Ports.Poll(&emu.Cpu.Memory)

	if emu.Cpu.Pc == pc {
		if emu.Verbose {
			log.Printf("emulator: halted at %03X", pc)
		}
		emu.state = STATE_HALTED
		done = true
	}

	return
}

// Run steps the emulator until it halts or faults. The context deadline,
// if any, is the wall-clock budget of the run.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	deadline, _ := ctx.Deadline()

	for {
		// The deadline itself is reported by the CPU as an infinite loop.
		if errors.Is(ctx.Err(), context.Canceled) {
			err = ctx.Err()
			return
		}

		var done bool
		done, err = emu.Tick(deadline)
		if err != nil || done {
			return
		}
	}
}
