package report

// FakeReporter records reported lines and heartbeats for test assertions.
type FakeReporter struct {
	// Lines contains every string passed to Line, in order.
	Lines []string

	// Heartbeats counts Heartbeat calls.
	Heartbeats int

	// Err, if set, will be returned by Line and Heartbeat.
	Err error
}

// NewFakeReporter creates a FakeReporter.
func NewFakeReporter() *FakeReporter {
	return &FakeReporter{}
}

// Line records s.
func (f *FakeReporter) Line(s string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Lines = append(f.Lines, s)
	return nil
}

// Heartbeat counts the call.
func (f *FakeReporter) Heartbeat() error {
	if f.Err != nil {
		return f.Err
	}
	f.Heartbeats++
	return nil
}
