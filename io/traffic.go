package io

import (
	"fmt"

	"github.com/ezrec/microsim/internal"
)

// Light is a single intersection's signal.
type Light struct {
	Red    bool
	Yellow bool
	Green  bool
}

func (l Light) String() (text string) {
	for _, on := range []struct {
		lit  bool
		name byte
	}{{l.Red, 'R'}, {l.Yellow, 'Y'}, {l.Green, 'G'}} {
		if on.lit {
			text += string(on.name)
		} else {
			text += "-"
		}
	}
	return
}

// TrafficLight is two intersections of red/yellow/green lights.
//
// Port bits 7..5 are red/yellow/green of the first intersection, bits
// 4..2 those of the second. Bits 1..0 both set enable blinking.
type TrafficLight struct {
	Light [2]Light
	Blink bool
}

var _ Device = (*TrafficLight)(nil)

func (tl *TrafficLight) Size() int {
	return 1
}

func (tl *TrafficLight) Rewind() {
	*tl = TrafficLight{}
}

func (tl *TrafficLight) Poll(port []uint8) {
	value := port[0]
	for n := range tl.Light {
		shift := uint(7 - 3*n)
		tl.Light[n] = Light{
			Red:    internal.Bit(value, shift),
			Yellow: internal.Bit(value, shift-1),
			Green:  internal.Bit(value, shift-2),
		}
	}
	tl.Blink = internal.Field(value, 0, 2) == 0b11
}

func (tl *TrafficLight) String() string {
	blink := ""
	if tl.Blink {
		blink = " blink"
	}
	return fmt.Sprintf("%v %v%v", tl.Light[0], tl.Light[1], blink)
}
