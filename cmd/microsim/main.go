// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/microsim/cpu"
	"github.com/ezrec/microsim/emulator"
)

// assignment parses repeatable name=value flags.
type assignment [][2]string

func (a *assignment) String() string {
	var parts []string
	for _, kv := range *a {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ",")
}

func (a *assignment) Set(text string) (err error) {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 || len(value) == 0 {
		err = fmt.Errorf("'%v' is not name=value", text)
		return
	}
	*a = append(*a, [2]string{name, value})
	return
}

func main() {
	var compile string
	var output string
	var load string
	var timeout time.Duration
	var norun bool
	var ports assignment
	var defines assignment
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&output, "o", "", ".obj file to write")
	flag.StringVar(&load, "l", "", ".obj file to load")
	flag.DurationVar(&timeout, "t", 5*time.Second, "Run time budget")
	flag.BoolVar(&norun, "n", false, "Assemble or load only, do not execute")
	flag.Var(&ports, "p", "Relocate an I/O port, as name=hexaddr")
	flag.Var(&defines, "D", "Predefine an assembler constant, as name=value")
	flag.BoolVar(&dump, "dump", false, "Dump symbols and registers to stderr")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(load) != 0 {
		log.Fatalf("%v: -c and -l are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	for _, kv := range ports {
		addr, err := strconv.ParseUint(strings.TrimPrefix(kv[1], "0x"), 16, 16)
		if err != nil {
			log.Fatalf("-p %v: %v", kv[0], err)
		}
		err = emu.Relocate(kv[0], int(addr))
		if err != nil {
			log.Fatalf("-p %v: %v", kv[0], err)
		}
	}

	for _, kv := range defines {
		emu.Predefine(kv[0], kv[1])
	}

	emu.Clear()

	switch {
	case len(compile) != 0:
		err := emu.AssembleFile(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(load) != 0:
		err := emu.Load(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	default:
		log.Fatalf("%v: one of -c or -l is required", os.Args[0])
	}

	if len(output) != 0 {
		err := emu.Save(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if dump && emu.Assembler != nil {
		symbols := maps.Collect(emu.Assembler.Symbols())
		pp.Fprintln(os.Stderr, symbols)
		pp.Fprintln(os.Stderr, emu.Program.Opcodes)
	}

	var err error
	if !norun {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		err = emu.Run(ctx)
	}

	if dump {
		regs := emu.Registers()
		for _, name := range cpu.RegisterNames {
			pp.Fprintf(os.Stderr, "%5s: %v\n", name, regs[name])
		}
		pp.Fprintln(os.Stderr, emu.Ports)
	}

	if err != nil {
		log.Fatal(err)
	}

	if !norun {
		fmt.Print(emu.Cpu.Machine.String())
		fmt.Printf("%5s: %v (%d ticks)\n", "state", emu.State(), emu.Ticks())
		fmt.Printf("%5s: %q\n", "ascii", emu.Ports.Ascii.Text)
		fmt.Printf("%5s: %v\n", "light", emu.Ports.Traffic)
		fmt.Printf("%5s: %q %q\n", "7seg", emu.Ports.Segment.Segments(0), emu.Ports.Segment.Segments(1))
	}
}
