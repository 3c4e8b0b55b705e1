package emulator

import (
	"errors"

	"github.com/ezrec/microsim/translate"
)

var f = translate.From

var (
	ErrNotLoaded = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Addr   int // Address of the faulting instruction.
	LineNo int // Source line, or 0 if unknown.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("address %03X %v", err.Addr, err.Err)
	}
	return f("line %d (address %03X) %v", err.LineNo, err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
