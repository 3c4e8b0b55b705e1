package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrafficLight(t *testing.T) {
	table := [](struct {
		value  uint8
		first  Light
		second Light
		blink  bool
		text   string
	}){
		{0x00, Light{}, Light{}, false, "--- ---"},
		{0b100_001_00, Light{Red: true}, Light{Green: true}, false, "R-- --G"},
		{0b010_010_11, Light{Yellow: true}, Light{Yellow: true}, true, "-Y- -Y- blink"},
		{0b001_100_01, Light{Green: true}, Light{Red: true}, false, "--G R--"},
	}

	for _, entry := range table {
		assert := assert.New(t)

		tl := &TrafficLight{}
		tl.Poll([]uint8{entry.value})
		assert.Equal(entry.first, tl.Light[0], "%08b", entry.value)
		assert.Equal(entry.second, tl.Light[1], "%08b", entry.value)
		assert.Equal(entry.blink, tl.Blink, "%08b", entry.value)
		assert.Equal(entry.text, tl.String())
	}
}

func TestSevenSegment(t *testing.T) {
	assert := assert.New(t)

	ss := &SevenSegment{}

	// '1' on the left digit: segments b and c.
	ss.Poll([]uint8{0b0110000_0})
	assert.Equal("bc", ss.Segments(0))
	assert.Equal("", ss.Segments(1))

	// '8' on the right digit.
	ss.Poll([]uint8{0b1111111_1})
	assert.Equal("bc", ss.Segments(0))
	assert.Equal("abcdefg", ss.Segments(1))

	ss.Rewind()
	assert.Equal([2]uint8{}, ss.Digit)
}

func TestAsciiDisplay(t *testing.T) {
	assert := assert.New(t)

	ad := &AsciiDisplay{}
	ad.Rewind()
	assert.Equal("        ", ad.Text)

	ad.Poll([]uint8{'H', 'o', 'l', 'a', 0, '\n', 0x7f, '!'})
	assert.Equal("Hola   !", ad.Text)
}

func TestHexKeypad(t *testing.T) {
	assert := assert.New(t)

	hk := &HexKeypad{}
	assert.NoError(hk.Press(0xA))
	assert.NoError(hk.Press(0x3))
	assert.ErrorIs(hk.Press(0x10), ErrKeyInvalid)

	port := []uint8{0}
	hk.Poll(port)
	assert.Equal(uint8(0xA1), port[0])

	// Not yet acknowledged.
	hk.Poll(port)
	assert.Equal(uint8(0xA1), port[0])

	port[0] = 0xA0
	hk.Poll(port)
	assert.Equal(uint8(0x31), port[0])

	port[0] = 0
	hk.Poll(port)
	assert.Equal(uint8(0), port[0])

	for range KEYPAD_QUEUE {
		assert.NoError(hk.Press(1))
	}
	assert.ErrorIs(hk.Press(1), ErrKeypadFull)

	hk.Rewind()
	assert.Equal(0, len(hk.Pending))
}
