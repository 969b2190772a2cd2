package maint

import (
	"fmt"
	"time"

	"github.com/sweeney/lightning-sensor/internal/as3935"
	"github.com/sweeney/lightning-sensor/internal/event"
	"github.com/sweeney/lightning-sensor/internal/irq"
	"github.com/sweeney/lightning-sensor/internal/logic"
)

// Tuning sweep timing.
const (
	// SettleDelay lets the oscillator stabilize after a tune-cap change.
	SettleDelay = 10 * time.Millisecond

	// MeasureWindow is the fixed span over which pulses are counted. The
	// tuning target constant is derived from it; change one, change both.
	MeasureWindow = 40 * time.Millisecond
)

// Tuner sweeps the 16 tuning-capacitor values to find the one that brings
// the antenna's resonant frequency closest to nominal. During the sweep the
// chip's divided reference oscillator is routed onto the interrupt line and
// the line is bound to the Calibration role, so every oscillator pulse
// increments the shared counter.
type Tuner struct {
	Line  irq.Binder
	State *event.State
	Chip  Chip
	Sleep Sleep
}

// Run performs the full sweep. It returns whether the best trial's error is
// within tolerance, the best trial itself, and any bus error. The binding
// and the oscillator routing are restored even on early error returns.
func (t *Tuner) Run() (passed bool, best logic.TrialResult, err error) {
	t.Line.Bind(irq.Calibration)
	defer t.Line.Bind(irq.Normal)

	if err = t.Chip.SetFrequencyDivider(as3935.Div16); err != nil {
		return false, best, fmt.Errorf("set divider: %w", err)
	}
	if err = t.Chip.RouteOscillatorToInterruptPin(true); err != nil {
		return false, best, fmt.Errorf("route oscillator: %w", err)
	}
	defer func() {
		if rerr := t.Chip.RouteOscillatorToInterruptPin(false); rerr != nil && err == nil {
			err = fmt.Errorf("restore routing: %w", rerr)
		}
	}()

	// All 16 values are measured in ascending order, no early exit, so the
	// sweep takes a fixed 16 * (SettleDelay + MeasureWindow) = 800 ms.
	trials := make([]logic.TrialResult, 0, logic.TuneCapValues)
	for tc := 0; tc < logic.TuneCapValues; tc++ {
		if err = t.Chip.SetTuneCap(uint8(tc)); err != nil {
			return false, best, fmt.Errorf("set tune cap %d: %w", tc, err)
		}
		t.Sleep(SettleDelay)

		t.State.ResetCounter()
		t.Sleep(MeasureWindow)
		count := t.State.ReadCounter()

		trials = append(trials, logic.TrialResult{
			TuneCap: uint8(tc),
			Count:   count,
			Err:     logic.AbsError(count),
		})
	}

	best = logic.BestTrial(trials)
	if err = t.Chip.SetTuneCap(best.TuneCap); err != nil {
		return false, best, fmt.Errorf("program best tune cap %d: %w", best.TuneCap, err)
	}

	return best.Err <= logic.TuneErrThreshold, best, nil
}
