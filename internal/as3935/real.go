//go:build linux

package as3935

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// RealBus reads and writes chip registers over Linux I2C via periph.io.
type RealBus struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// NewRealBus opens the named I2C bus ("" selects the first available) and
// addresses the chip at addr.
func NewRealBus(busName string, addr uint16) (*RealBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	return &RealBus{
		bus: bus,
		dev: &i2c.Dev{Addr: addr, Bus: bus},
	}, nil
}

// ReadRegister returns the byte at addr.
func (b *RealBus) ReadRegister(addr byte) (byte, error) {
	var buf [1]byte
	if err := b.dev.Tx([]byte{addr}, buf[:]); err != nil {
		return 0, fmt.Errorf("i2c read 0x%02x: %w", addr, err)
	}
	return buf[0], nil
}

// WriteRegister stores value at addr.
func (b *RealBus) WriteRegister(addr, value byte) error {
	if err := b.dev.Tx([]byte{addr, value}, nil); err != nil {
		return fmt.Errorf("i2c write 0x%02x: %w", addr, err)
	}
	return nil
}

// Close releases the I2C bus.
func (b *RealBus) Close() error {
	return b.bus.Close()
}
