//go:build !linux

package irq

import (
	"errors"

	"github.com/sweeney/lightning-sensor/internal/event"
)

// RealLine is not available on non-Linux platforms.
type RealLine struct{}

// NewRealLine returns an error on non-Linux platforms.
func NewRealLine(chipName string, pin int, state *event.State) (*RealLine, error) {
	return nil, errors.New("irq: not supported on this platform (requires Linux)")
}

// Bind is not implemented on non-Linux platforms.
func (l *RealLine) Bind(role Role) {}

// Current is not implemented on non-Linux platforms.
func (l *RealLine) Current() Role { return Normal }

// Close is not implemented on non-Linux platforms.
func (l *RealLine) Close() error { return nil }
