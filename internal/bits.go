package internal

import (
	"golang.org/x/exp/constraints"
)

// Field extracts a width-bit field starting at bit shift.
func Field[T constraints.Unsigned](value T, shift, width uint) T {
	return (value >> shift) & ((T(1) << width) - 1)
}

// Bit reports whether bit n of value is set.
func Bit[T constraints.Unsigned](value T, n uint) bool {
	return Field(value, n, 1) == 1
}
