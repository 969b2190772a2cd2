// Package maint implements the two maintenance routines that temporarily
// repurpose the interrupt line: the oscillator tuning sweep and the built-in
// self-test. Both always restore the Normal binding before returning, on
// failure paths included, so detection events are never missed afterwards.
package maint

import (
	"time"

	"github.com/sweeney/lightning-sensor/internal/as3935"
)

// Chip is the subset of chip operations the maintenance routines use.
// *as3935.Device satisfies it.
type Chip interface {
	SetTuneCap(tc uint8) error
	SetFrequencyDivider(div as3935.FreqDivider) error
	RouteOscillatorToInterruptPin(on bool) error
	InterruptReason() (byte, error)
}

// Sleep blocks the caller. The delays below are total-system blocking: the
// daemon has exactly one active task during a maintenance run, so nothing
// else is waiting. Injectable for tests.
type Sleep func(d time.Duration)

// Stimulus triggers the external self-test stimulus (a noise-generator pulse
// coupled into the antenna). The chip cannot stimulate itself; the generator
// is separate hardware.
type Stimulus interface {
	Fire() error
}

// StimulusFunc adapts a function to the Stimulus interface.
type StimulusFunc func() error

// Fire calls f.
func (f StimulusFunc) Fire() error { return f() }

// NoopStimulus is a placeholder for builds without a noise generator
// attached. Firing it does nothing, so the self-test will report failure
// until real stimulus hardware is wired up.
type NoopStimulus struct{}

// Fire does nothing.
func (NoopStimulus) Fire() error { return nil }
