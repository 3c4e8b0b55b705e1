package io

import (
	"errors"

	"github.com/ezrec/microsim/translate"
)

var f = translate.From

var (
	// Device errors
	ErrKeypadFull    = errors.New(f("keypad queue full"))
	ErrKeyInvalid    = errors.New(f("key is not a hex digit"))
	ErrPortCollision = errors.New(f("port overlaps another device"))
)

// ErrPortInvalid is returned for an unknown port name.
type ErrPortInvalid string

func (err ErrPortInvalid) Error() string {
	return f("port '%v' unknown", string(err))
}
