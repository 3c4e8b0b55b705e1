package io

const (
	KEYPAD_QUEUE = 10 // Pending key presses the keypad holds.
)

// HexKeypad is a sixteen key hex keypad.
//
// Presses are queued. When bit 0 of the port is clear the next key is
// written to the port as key<<4 | 1. The program consumes the key by
// clearing bit 0.
type HexKeypad struct {
	Pending []uint8 // Queued presses, oldest first.
}

var _ Device = (*HexKeypad)(nil)

func (hk *HexKeypad) Size() int {
	return 1
}

func (hk *HexKeypad) Rewind() {
	hk.Pending = nil
}

// Press queues a key press.
func (hk *HexKeypad) Press(key uint8) (err error) {
	if key > 0xf {
		err = ErrKeyInvalid
		return
	}

	if len(hk.Pending) >= KEYPAD_QUEUE {
		err = ErrKeypadFull
		return
	}

	hk.Pending = append(hk.Pending, key)

	return
}

func (hk *HexKeypad) Poll(port []uint8) {
	if port[0]&1 != 0 || len(hk.Pending) == 0 {
		return
	}

	port[0] = (hk.Pending[0] << 4) | 1
	hk.Pending = hk.Pending[1:]
}
