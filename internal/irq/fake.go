package irq

import "github.com/sweeney/lightning-sensor/internal/event"

// FakeLine is a test double for the interrupt line. It dispatches simulated
// edges to the same handler table the real line uses and records every
// binding so tests can check that maintenance routines restore Normal.
type FakeLine struct {
	// Bindings contains every role passed to Bind, in order. It does not
	// include the initial Normal role.
	Bindings []Role

	role     Role
	dispatch map[Role]func()
}

// NewFakeLine creates a FakeLine bound to Normal.
func NewFakeLine(state *event.State) *FakeLine {
	return &FakeLine{
		role:     Normal,
		dispatch: handlers(state),
	}
}

// Bind records and switches the role.
func (f *FakeLine) Bind(role Role) {
	f.Bindings = append(f.Bindings, role)
	f.role = role
}

// Current returns the role currently bound.
func (f *FakeLine) Current() Role {
	return f.role
}

// Pulse simulates n rising edges, each delivered to the handler for the
// currently bound role.
func (f *FakeLine) Pulse(n int) {
	h := f.dispatch[f.role]
	for i := 0; i < n; i++ {
		h()
	}
}

// EndsNormal reports whether the last recorded binding (if any) restored the
// Normal role. A maintenance routine that returns without this is broken.
func (f *FakeLine) EndsNormal() bool {
	if len(f.Bindings) == 0 {
		return f.role == Normal
	}
	return f.Bindings[len(f.Bindings)-1] == Normal
}
