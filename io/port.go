package io

import (
	"errors"
	"iter"
	"log"

	"github.com/ezrec/microsim/cpu"
)

// Port names, also predefined as assembler constants.
const (
	TRAFFIC_LIGHT = "TRAFFIC_LIGHT"
	SEVEN_SEGMENT = "SEVEN_SEGMENT"
	HEX_KEYPAD    = "HEX_KEYPAD"
	ASCII_DISPLAY = "ASCII_DISPLAY"
)

// Port is a device mapped into the memory bank.
type Port struct {
	Name   string
	Addr   int
	Device Device
}

// Contains is true if addr falls within the port's span.
func (p *Port) Contains(addr int) bool {
	return addr >= p.Addr && addr < p.Addr+p.Device.Size()
}

// PortMap is the set of memory-mapped devices.
type PortMap struct {
	Verbose bool

	Traffic *TrafficLight
	Segment *SevenSegment
	Keypad  *HexKeypad
	Ascii   *AsciiDisplay

	ports []*Port
}

// NewPortMap creates the devices at their default ports.
func NewPortMap() (pm *PortMap) {
	pm = &PortMap{
		Traffic: &TrafficLight{},
		Segment: &SevenSegment{},
		Keypad:  &HexKeypad{},
		Ascii:   &AsciiDisplay{},
	}

	pm.ports = []*Port{
		{Name: TRAFFIC_LIGHT, Addr: 0, Device: pm.Traffic},
		{Name: SEVEN_SEGMENT, Addr: 1, Device: pm.Segment},
		{Name: HEX_KEYPAD, Addr: 2, Device: pm.Keypad},
		{Name: ASCII_DISPLAY, Addr: 3, Device: pm.Ascii},
	}

	pm.Rewind()

	return
}

// Port returns the port by name.
func (pm *PortMap) Port(name string) (port *Port, err error) {
	for _, port = range pm.ports {
		if port.Name == name {
			return
		}
	}

	port = nil
	err = ErrPortInvalid(name)
	return
}

// Relocate moves a device to a new address. The new span must fit the
// memory bank and must not overlap any other device.
func (pm *PortMap) Relocate(name string, addr int) (err error) {
	port, err := pm.Port(name)
	if err != nil {
		return
	}

	end := addr + port.Device.Size()
	if addr < 0 || end > cpu.MEMORY_SIZE {
		err = cpu.ErrAddress(addr)
		return
	}

	for _, other := range pm.ports {
		if other == port {
			continue
		}
		if addr < other.Addr+other.Device.Size() && other.Addr < end {
			err = errors.Join(cpu.ErrMemorySize, ErrPortCollision)
			return
		}
	}

	if pm.Verbose {
		log.Printf("io: %v %03X -> %03X", name, port.Addr, addr)
	}

	port.Addr = addr

	return
}

// All iterates over the port names and their addresses.
func (pm *PortMap) All() iter.Seq2[string, int] {
	return func(yield func(name string, addr int) bool) {
		for _, port := range pm.ports {
			if !yield(port.Name, port.Addr) {
				return
			}
		}
	}
}

// Rewind resets every device.
func (pm *PortMap) Rewind() {
	for _, port := range pm.ports {
		port.Device.Rewind()
	}
}

// Poll lets every device observe its port in the memory bank.
func (pm *PortMap) Poll(mem *cpu.Memory) {
	for _, port := range pm.ports {
		port.Device.Poll(mem[port.Addr : port.Addr+port.Device.Size()])
	}
}
