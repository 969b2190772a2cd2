// Package status provides a thread-safe run-state tracker for the
// lightning-sensor daemon. The run loop updates it as events and maintenance
// runs happen; the shutdown path prints its snapshot.
package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/lightning-sensor/internal/logic"
)

// ReasonCounts tracks how many events of each classification were seen
// since startup.
type ReasonCounts struct {
	None      int
	Noisy     int
	Disturber int
	Strike    int
	Unknown   int
}

// Config contains daemon configuration for display.
type Config struct {
	HeartbeatMs   int64
	CalibrationMs int64
	SelfTestMs    int64
	I2CBus        string
	IRQPin        int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Counts          ReasonCounts
	CalibrationRuns int
	CalibrationPass bool
	TuneCap         uint8
	SelfTestRuns    int
	SelfTestPass    bool
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Summary formats the snapshot as a single shutdown line.
func (s Snapshot) Summary() string {
	return fmt.Sprintf(
		"uptime=%v strikes=%d disturbers=%d noise=%d unknown=%d cal_runs=%d cal_ok=%t tune_cap=%d bit_runs=%d bit_ok=%t",
		s.Uptime().Round(time.Second),
		s.Counts.Strike, s.Counts.Disturber, s.Counts.Noisy, s.Counts.Unknown,
		s.CalibrationRuns, s.CalibrationPass, s.TuneCap,
		s.SelfTestRuns, s.SelfTestPass,
	)
}

// Tracker holds mutable daemon state behind a mutex.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// CountReason increments the counter for one classified event.
func (t *Tracker) CountReason(r logic.Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch r {
	case logic.ReasonNone:
		t.snap.Counts.None++
	case logic.ReasonNoisy:
		t.snap.Counts.Noisy++
	case logic.ReasonDisturber:
		t.snap.Counts.Disturber++
	case logic.ReasonStrike:
		t.snap.Counts.Strike++
	default:
		t.snap.Counts.Unknown++
	}
}

// SetCalibration records the outcome of a calibration run.
func (t *Tracker) SetCalibration(passed bool, tuneCap uint8) {
	t.mu.Lock()
	t.snap.CalibrationRuns++
	t.snap.CalibrationPass = passed
	t.snap.TuneCap = tuneCap
	t.mu.Unlock()
}

// SetSelfTest records the outcome of a self-test run.
func (t *Tracker) SetSelfTest(passed bool) {
	t.mu.Lock()
	t.snap.SelfTestRuns++
	t.snap.SelfTestPass = passed
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	s := t.snap
	t.mu.Unlock()
	s.Now = time.Now()
	return s
}
