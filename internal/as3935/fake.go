package as3935

import "errors"

// FakeBus is an in-memory register file for tests. Writes to the direct
// command registers are recorded but do not modify register contents, like
// the real chip.
type FakeBus struct {
	// Regs holds current register values, keyed by address.
	Regs map[byte]byte

	// Writes contains every (addr, value) pair written, in order.
	Writes []RegWrite

	// Reads contains every address read, in order.
	Reads []byte

	// Commands contains direct command addresses written with 0x96.
	Commands []byte

	// ReadError, if set, will be returned by ReadRegister.
	ReadError error

	// WriteError, if set, will be returned by WriteRegister.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// RegWrite is one recorded register write.
type RegWrite struct {
	Addr  byte
	Value byte
}

// NewFakeBus creates a FakeBus with an empty register file.
func NewFakeBus() *FakeBus {
	return &FakeBus{Regs: make(map[byte]byte)}
}

// ReadRegister returns the stored value (zero for untouched registers).
func (f *FakeBus) ReadRegister(addr byte) (byte, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	f.Reads = append(f.Reads, addr)
	return f.Regs[addr], nil
}

// WriteRegister records the write and updates the register file. Direct
// commands are recorded separately and leave the file untouched.
func (f *FakeBus) WriteRegister(addr, value byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, RegWrite{Addr: addr, Value: value})
	if addr == RegPresetDflt || addr == RegCalibRCO {
		if value == DirectCommand {
			f.Commands = append(f.Commands, addr)
		}
		return nil
	}
	f.Regs[addr] = value
	return nil
}

// Close marks the bus as closed.
func (f *FakeBus) Close() error {
	if f.Closed {
		return errors.New("already closed")
	}
	f.Closed = true
	return nil
}
