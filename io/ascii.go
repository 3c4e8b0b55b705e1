package io

import (
	"strings"
)

const (
	ASCII_WIDTH = 8 // Characters in the ASCII readout.
)

// AsciiDisplay is an eight character readout.
type AsciiDisplay struct {
	Text string
}

var _ Device = (*AsciiDisplay)(nil)

func (ad *AsciiDisplay) Size() int {
	return ASCII_WIDTH
}

func (ad *AsciiDisplay) Rewind() {
	ad.Text = strings.Repeat(" ", ASCII_WIDTH)
}

// Poll renders the port bytes. Non-printable characters show as spaces.
func (ad *AsciiDisplay) Poll(port []uint8) {
	var text strings.Builder
	for _, value := range port[:ASCII_WIDTH] {
		if value < 0x20 || value > 0x7e {
			value = ' '
		}
		text.WriteByte(value)
	}
	ad.Text = text.String()
}
