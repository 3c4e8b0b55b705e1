// Package io provides the memory-mapped devices of the MicroSim machine.
// Each device owns a small span of the memory bank, its port, and observes
// (and for the keypad, updates) the bytes there after every instruction.
package io

// Device defines the interface for all memory-mapped devices.
type Device interface {
	// Size is the number of bytes of the memory bank the device occupies.
	Size() int
	// Rewind resets the device to its initial state.
	Rewind()
	// Poll observes the port bytes, and may write to them.
	Poll(port []uint8)
}
