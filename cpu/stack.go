package cpu

// The stack lives in the memory bank and grows downward. Push decrements
// sp then writes; pop reads then increments. sp wraps modulo the bank size.

// Push a byte onto the stack.
func (m *Machine) Push(value uint8) {
	m.Sp = (m.Sp - 1) & ADDRESS_MASK
	m.Memory[m.Sp] = value
}

// Pop a byte from the stack.
func (m *Machine) Pop() (value uint8) {
	value = m.Peek()
	m.Sp = (m.Sp + 1) & ADDRESS_MASK
	return
}

// Peek returns the byte on top of the stack.
func (m *Machine) Peek() uint8 {
	return m.Memory[m.Sp&ADDRESS_MASK]
}

// PushAddress pushes a 12-bit address, low byte first.
func (m *Machine) PushAddress(addr uint16) {
	m.Push(uint8(addr))
	m.Push(uint8((addr >> 8) & 0xf))
}

// PopAddress pops a 12-bit address pushed by PushAddress.
func (m *Machine) PopAddress() (addr uint16) {
	hi := m.Pop()
	lo := m.Pop()
	return ((uint16(hi) << 8) | uint16(lo)) & ADDRESS_MASK
}
