// Package irq owns the single physical interrupt line and its binding to
// exactly one of three handler roles. The real implementation uses the Linux
// GPIO character device with rising-edge events. The fake implementation
// allows testing without hardware.
package irq

import "github.com/sweeney/lightning-sensor/internal/event"

// Default line location (BCM numbering on a Raspberry Pi).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)

// Role selects which handler the interrupt line drives. Exactly one role is
// bound at any instant. Normal is the default and the state every
// maintenance routine must restore before returning, failure paths included.
type Role int

const (
	// Normal latches a detection event for the main loop to classify.
	Normal Role = iota
	// Calibration counts oscillator pulses during a tuning trial.
	Calibration
	// SelfTest latches the response to a self-test stimulus.
	SelfTest
)

// String returns the role name for logs.
func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Calibration:
		return "calibration"
	case SelfTest:
		return "self-test"
	default:
		return "invalid"
	}
}

// Binder binds one of the three roles to the physical line.
type Binder interface {
	// Bind switches the line to the given role. The switch is atomic with
	// respect to edge dispatch: no edge is ever delivered to two handlers,
	// and no edge is delivered to the old handler after Bind returns.
	Bind(role Role)

	// Current returns the role currently bound.
	Current() Role
}

// handlers is the fixed dispatch table keyed by role. Each entry does the
// minimum an edge handler may do: touch shared state, never the bus (the
// chip's status register is not valid until ~2 ms after the edge).
func handlers(state *event.State) map[Role]func() {
	return map[Role]func(){
		Normal:      state.SetNormalFlag,
		Calibration: state.IncrementCounter,
		SelfTest:    state.SetSelfTestFlag,
	}
}
