package emulator

//go:generate go tool stringer -linecomment -type=State

// State is the run state of the emulator.
type State int

const (
	STATE_IDLE    = State(iota) // idle
	STATE_LOADED                // loaded
	STATE_RUNNING               // running
	STATE_HALTED                // halted
	STATE_FAULTED               // faulted
)
