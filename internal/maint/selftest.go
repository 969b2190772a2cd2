package maint

import (
	"fmt"
	"time"

	"github.com/sweeney/lightning-sensor/internal/event"
	"github.com/sweeney/lightning-sensor/internal/irq"
)

// ResponseWindow is how long the self-test waits for the interrupt path to
// respond to the stimulus.
const ResponseWindow = 3 * time.Millisecond

// SelfTest verifies the detector's interrupt path end to end: it binds the
// line to the SelfTest role, fires the external stimulus, and checks that
// the edge handler latched a response within the window.
type SelfTest struct {
	Line  irq.Binder
	State *event.State
	Chip  Chip
	Stim  Stimulus
	Sleep Sleep
}

// Run returns whether the response arrived in time, plus any stimulus or bus
// error. The Normal binding is restored on every path.
func (s *SelfTest) Run() (passed bool, err error) {
	s.Line.Bind(irq.SelfTest)
	defer s.Line.Bind(irq.Normal)

	// Discard any stale response from a previous run.
	s.State.TakeSelfTestFlag()

	if err := s.Stim.Fire(); err != nil {
		return false, fmt.Errorf("fire stimulus: %w", err)
	}

	s.Sleep(ResponseWindow)

	if !s.State.TakeSelfTestFlag() {
		return false, nil
	}

	// The reason value is not interesting here, but reading it clears the
	// chip's latched interrupt so the Normal role starts clean.
	if _, err := s.Chip.InterruptReason(); err != nil {
		return false, fmt.Errorf("clear interrupt latch: %w", err)
	}

	return true, nil
}
