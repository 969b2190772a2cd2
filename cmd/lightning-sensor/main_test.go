package main

import (
	"errors"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/lightning-sensor/internal/as3935"
	"github.com/sweeney/lightning-sensor/internal/event"
	"github.com/sweeney/lightning-sensor/internal/irq"
	"github.com/sweeney/lightning-sensor/internal/logic"
	"github.com/sweeney/lightning-sensor/internal/maint"
	"github.com/sweeney/lightning-sensor/internal/report"
	"github.com/sweeney/lightning-sensor/internal/status"
)

// fakeClock is a settable clock. The mutex makes it safe to advance from the
// test while runLoop reads it; tick-channel handoffs order the accesses.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// harness wires runLoop to fakes. Ticks are sent on an unbuffered channel,
// so each tickOnce returns only after the loop has finished the previous
// iteration; fake state mutated between ticks is safely visible.
type harness struct {
	bus     *as3935.FakeBus
	state   *event.State
	line    *irq.FakeLine
	rep     *report.FakeReporter
	tracker *status.Tracker
	clock   *fakeClock
	tick    chan time.Time
	sig     chan os.Signal
	errCh   chan error
}

func startLoop(t *testing.T, heartbeat, calibration, selfTest time.Duration, stim maint.Stimulus, sleep maint.Sleep) *harness {
	t.Helper()
	h := &harness{
		bus:   as3935.NewFakeBus(),
		state: &event.State{},
		clock: newFakeClock(),
		rep:   report.NewFakeReporter(),
		tick:  make(chan time.Time),
		sig:   make(chan os.Signal, 1),
		errCh: make(chan error, 1),
	}
	h.line = irq.NewFakeLine(h.state)
	h.tracker = status.NewTracker(h.clock.now(), status.Config{})
	if sleep == nil {
		sleep = func(time.Duration) {}
	}

	dev := as3935.NewDevice(h.bus)

	// runLoop reads the clock four times while initializing (its start time
	// plus the three initial deadlines). Wait for those reads before
	// returning so a clock advance in the test cannot land mid-init and
	// shift the deadline anchors.
	ready := make(chan struct{})
	reads := 0
	now := func() time.Time {
		ts := h.clock.now()
		if reads++; reads == 4 {
			close(ready)
		}
		return ts
	}
	go func() {
		h.errCh <- runLoop(dev, h.line, h.state, stim, h.rep, h.tracker, heartbeat, calibration, selfTest, now, sleep, h.tick, h.sig)
	}()
	<-ready
	return h
}

func (h *harness) tickOnce() {
	h.tick <- time.Time{}
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.sig <- syscall.SIGTERM
	if err := <-h.errCh; err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
}

func (h *harness) hasLine(s string) bool {
	for _, l := range h.rep.Lines {
		if l == s {
			return true
		}
	}
	return false
}

const farFuture = 24 * time.Hour

var errFake = errors.New("bus fault")

func TestRunLoopShutdownSummary(t *testing.T) {
	h := startLoop(t, farFuture, farFuture, farFuture, maint.NoopStimulus{}, nil)
	h.tickOnce()
	h.stop(t)

	if len(h.rep.Lines) != 1 {
		t.Fatalf("expected only the shutdown summary, got %v", h.rep.Lines)
	}
	if !strings.Contains(h.rep.Lines[0], "uptime=") {
		t.Errorf("summary missing uptime: %q", h.rep.Lines[0])
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	// The reporter is only safe to inspect after stop, so each scenario gets
	// its own loop and asserts the final heartbeat count.
	cases := []struct {
		name  string
		steps []time.Duration
		want  int
	}{
		{"not yet due", []time.Duration{500 * time.Millisecond}, 0},
		{"fires once past deadline", []time.Duration{1100 * time.Millisecond}, 1},
		// Rescheduled to now+period after firing, so 100ms later is quiet.
		{"no refire within period", []time.Duration{1100 * time.Millisecond, 100 * time.Millisecond}, 1},
		{"fires again next period", []time.Duration{1100 * time.Millisecond, 100 * time.Millisecond, time.Second}, 2},
	}
	for _, c := range cases {
		h := startLoop(t, time.Second, farFuture, farFuture, maint.NoopStimulus{}, nil)
		for _, d := range c.steps {
			h.advanceAndTick(d)
		}
		h.stop(t)
		if h.rep.Heartbeats != c.want {
			t.Errorf("%s: expected %d heartbeats, got %d", c.name, c.want, h.rep.Heartbeats)
		}
	}
}

func (h *harness) advanceAndTick(d time.Duration) {
	h.clock.advance(d)
	h.tick <- time.Time{}
}

func TestRunLoopDetectionEvent(t *testing.T) {
	h := startLoop(t, farFuture, farFuture, farFuture, maint.NoopStimulus{}, nil)

	h.bus.Regs[as3935.RegInt] = 0x08
	h.state.SetNormalFlag()
	h.tickOnce()

	// Flag is cleared on observation; a second tick must not re-report.
	h.tickOnce()
	h.stop(t)

	if !h.hasLine("ISR: Strike") {
		t.Errorf("expected %q, got %v", "ISR: Strike", h.rep.Lines)
	}
	count := 0
	for _, l := range h.rep.Lines {
		if strings.HasPrefix(l, report.EventPrefix) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 event line, got %d", count)
	}
	if got := h.tracker.Snapshot().Counts.Strike; got != 1 {
		t.Errorf("tracker strikes: got %d, want 1", got)
	}
}

func TestRunLoopDetectionReasons(t *testing.T) {
	cases := []struct {
		code byte
		want string
	}{
		{0x00, "ISR: None?"},
		{0x01, "ISR: Noisy"},
		{0x04, "ISR: Disturber"},
		{0x08, "ISR: Strike"},
		{0x02, "ISR: Unkown ISR"},
	}
	for _, c := range cases {
		h := startLoop(t, farFuture, farFuture, farFuture, maint.NoopStimulus{}, nil)
		h.bus.Regs[as3935.RegInt] = c.code
		h.state.SetNormalFlag()
		h.tickOnce()
		h.stop(t)

		if !h.hasLine(c.want) {
			t.Errorf("code 0x%02x: expected %q, got %v", c.code, c.want, h.rep.Lines)
		}
	}
}

// faultBus wraps a FakeBus and fails reads for a range of calls.
// No shared mutable state — the fault range is fixed at construction.
type faultBus struct {
	inner      *as3935.FakeBus
	call       int
	faultStart int // first read call that fails (inclusive)
	faultEnd   int // last read call that fails (exclusive)
}

func (b *faultBus) ReadRegister(addr byte) (byte, error) {
	i := b.call
	b.call++
	if i >= b.faultStart && i < b.faultEnd {
		return 0, errFake
	}
	return b.inner.ReadRegister(addr)
}

func (b *faultBus) WriteRegister(addr, value byte) error {
	return b.inner.WriteRegister(addr, value)
}

func (b *faultBus) Close() error { return b.inner.Close() }

func TestRunLoopDetectionReadError(t *testing.T) {
	// First reason read fails; the loop must survive and service the next
	// event normally.
	inner := as3935.NewFakeBus()
	inner.Regs[as3935.RegInt] = 0x04

	h := &harness{
		bus:   inner,
		state: &event.State{},
		clock: newFakeClock(),
		rep:   report.NewFakeReporter(),
		tick:  make(chan time.Time),
		sig:   make(chan os.Signal, 1),
		errCh: make(chan error, 1),
	}
	h.line = irq.NewFakeLine(h.state)
	h.tracker = status.NewTracker(h.clock.now(), status.Config{})

	dev := as3935.NewDevice(&faultBus{inner: inner, faultStart: 0, faultEnd: 1})
	go func() {
		h.errCh <- runLoop(dev, h.line, h.state, maint.NoopStimulus{}, h.rep, h.tracker, farFuture, farFuture, farFuture, h.clock.now, func(time.Duration) {}, h.tick, h.sig)
	}()

	h.state.SetNormalFlag()
	h.tickOnce()
	// The second tick is a barrier: its send cannot complete until the
	// faulting iteration has finished, so the flag set below cannot be
	// consumed by it.
	h.tickOnce()
	h.state.SetNormalFlag()
	h.tickOnce()
	h.stop(t)

	if !h.hasLine("ISR: Disturber") {
		t.Errorf("expected recovery after read error, got %v", h.rep.Lines)
	}
	count := 0
	for _, l := range h.rep.Lines {
		if strings.HasPrefix(l, report.EventPrefix) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 event line (error swallowed the first), got %d", count)
	}
}

func TestRunLoopCalibrationFailureReported(t *testing.T) {
	// No pulses arrive with a no-op sleep, so every trial counts zero and
	// validation fails.
	h := startLoop(t, farFuture, time.Minute, farFuture, maint.NoopStimulus{}, nil)

	h.advanceAndTick(61 * time.Second)
	h.stop(t)

	if !h.hasLine(report.CalibrationFailedLine) {
		t.Errorf("expected %q, got %v", report.CalibrationFailedLine, h.rep.Lines)
	}
	snap := h.tracker.Snapshot()
	if snap.CalibrationRuns != 1 || snap.CalibrationPass {
		t.Errorf("tracker: got runs=%d pass=%t", snap.CalibrationRuns, snap.CalibrationPass)
	}
	if !h.line.EndsNormal() {
		t.Error("line not restored to Normal after calibration")
	}
}

func TestRunLoopCalibrationSuccess(t *testing.T) {
	// Feed the ideal pulse count into every measurement window.
	var h *harness
	sleep := func(d time.Duration) {
		if d == maint.MeasureWindow {
			h.line.Pulse(logic.TuneTarget)
		}
	}
	h = startLoop(t, farFuture, time.Minute, farFuture, maint.NoopStimulus{}, sleep)

	h.advanceAndTick(61 * time.Second)
	h.stop(t)

	if h.hasLine(report.CalibrationFailedLine) {
		t.Errorf("unexpected calibration failure: %v", h.rep.Lines)
	}
	snap := h.tracker.Snapshot()
	if snap.CalibrationRuns != 1 || !snap.CalibrationPass {
		t.Errorf("tracker: got runs=%d pass=%t", snap.CalibrationRuns, snap.CalibrationPass)
	}
}

func TestRunLoopSelfTestFailureReported(t *testing.T) {
	h := startLoop(t, farFuture, farFuture, time.Minute, maint.NoopStimulus{}, nil)

	h.advanceAndTick(61 * time.Second)
	h.stop(t)

	if !h.hasLine(report.SelfTestFailedLine) {
		t.Errorf("expected %q, got %v", report.SelfTestFailedLine, h.rep.Lines)
	}
	snap := h.tracker.Snapshot()
	if snap.SelfTestRuns != 1 || snap.SelfTestPass {
		t.Errorf("tracker: got runs=%d pass=%t", snap.SelfTestRuns, snap.SelfTestPass)
	}
	if !h.line.EndsNormal() {
		t.Error("line not restored to Normal after self-test")
	}
}

func TestRunLoopSelfTestPass(t *testing.T) {
	var h *harness
	stim := maint.StimulusFunc(func() error {
		h.line.Pulse(1)
		return nil
	})
	h = startLoop(t, farFuture, farFuture, time.Minute, stim, nil)

	h.advanceAndTick(61 * time.Second)
	h.stop(t)

	if h.hasLine(report.SelfTestFailedLine) {
		t.Errorf("unexpected self-test failure: %v", h.rep.Lines)
	}
	if !h.tracker.Snapshot().SelfTestPass {
		t.Error("tracker should record self-test pass")
	}
}

func TestRunLoopMaintenanceOrder(t *testing.T) {
	// Calibration and self-test due in the same iteration fire in fixed
	// declaration order: calibration first.
	h := startLoop(t, farFuture, time.Minute, time.Minute, maint.NoopStimulus{}, nil)

	h.advanceAndTick(61 * time.Second)
	h.stop(t)

	calIdx, bitIdx := -1, -1
	for i, l := range h.rep.Lines {
		switch l {
		case report.CalibrationFailedLine:
			calIdx = i
		case report.SelfTestFailedLine:
			bitIdx = i
		}
	}
	if calIdx == -1 || bitIdx == -1 {
		t.Fatalf("expected both failure lines, got %v", h.rep.Lines)
	}
	if calIdx > bitIdx {
		t.Errorf("calibration must fire before self-test, got %v", h.rep.Lines)
	}
}

func TestOnOff(t *testing.T) {
	if onOff(true) != "ON" || onOff(false) != "OFF" {
		t.Error("onOff mapping wrong")
	}
}
