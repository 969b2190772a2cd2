//go:build !linux

package as3935

import "errors"

// RealBus is not available on non-Linux platforms.
type RealBus struct{}

// NewRealBus returns an error on non-Linux platforms.
func NewRealBus(busName string, addr uint16) (*RealBus, error) {
	return nil, errors.New("as3935: not supported on this platform (requires Linux)")
}

// ReadRegister is not implemented on non-Linux platforms.
func (b *RealBus) ReadRegister(addr byte) (byte, error) {
	return 0, errors.New("as3935: not supported")
}

// WriteRegister is not implemented on non-Linux platforms.
func (b *RealBus) WriteRegister(addr, value byte) error {
	return errors.New("as3935: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *RealBus) Close() error { return nil }
