package io

import (
	"github.com/ezrec/microsim/internal"
)

// SEGMENT_NAMES names the segments from bit 7 down to bit 1.
const SEGMENT_NAMES = "abcdefg"

// SevenSegment is a pair of seven segment digits, left and right.
//
// Port bits 7..1 are segments a..g, bit 0 selects the digit written.
type SevenSegment struct {
	Digit [2]uint8 // Segment bits, a in bit 6 down to g in bit 0.
}

var _ Device = (*SevenSegment)(nil)

func (ss *SevenSegment) Size() int {
	return 1
}

func (ss *SevenSegment) Rewind() {
	*ss = SevenSegment{}
}

func (ss *SevenSegment) Poll(port []uint8) {
	value := port[0]
	ss.Digit[internal.Field(value, 0, 1)] = internal.Field(value, 1, 7)
}

// Segments returns the names of the lit segments of a digit.
func (ss *SevenSegment) Segments(digit int) (lit string) {
	for n := range len(SEGMENT_NAMES) {
		if internal.Bit(ss.Digit[digit], uint(6-n)) {
			lit += SEGMENT_NAMES[n : n+1]
		}
	}
	return
}
