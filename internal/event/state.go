// Package event holds the state shared between the interrupt edge handler
// and the main loop: a pulse counter and two single-bit event flags. This is
// the only data both contexts touch; everything else in the daemon is
// single-threaded.
package event

import "sync"

// State is the interrupt-to-task handoff. The edge handler does nothing but
// increment the counter or set a flag; all real work happens in the main
// loop. The mutex is the host-side stand-in for the firmware's
// interrupt-masked critical section and is held for the minimum span.
//
// Flags are at-least-once: a flag set twice before being taken is
// indistinguishable from being set once. There is no queueing.
type State struct {
	mu       sync.Mutex
	counter  uint32
	normal   bool
	selfTest bool
}

// IncrementCounter adds one pulse. Called from the edge handler while the
// line is bound to the Calibration role.
func (s *State) IncrementCounter() {
	s.mu.Lock()
	s.counter++
	s.mu.Unlock()
}

// ResetCounter zeroes the pulse counter at the start of a tuning trial.
func (s *State) ResetCounter() {
	s.mu.Lock()
	s.counter = 0
	s.mu.Unlock()
}

// ReadCounter returns the pulse count. The lock prevents a torn read racing
// an in-flight increment.
func (s *State) ReadCounter() uint32 {
	s.mu.Lock()
	n := s.counter
	s.mu.Unlock()
	return n
}

// SetNormalFlag records a detection event. Called from the edge handler
// while the line is bound to the Normal role.
func (s *State) SetNormalFlag() {
	s.mu.Lock()
	s.normal = true
	s.mu.Unlock()
}

// TakeNormalFlag returns the detection flag and clears it.
func (s *State) TakeNormalFlag() bool {
	s.mu.Lock()
	v := s.normal
	s.normal = false
	s.mu.Unlock()
	return v
}

// SetSelfTestFlag records a self-test response. Called from the edge handler
// while the line is bound to the SelfTest role.
func (s *State) SetSelfTestFlag() {
	s.mu.Lock()
	s.selfTest = true
	s.mu.Unlock()
}

// TakeSelfTestFlag returns the self-test flag and clears it.
func (s *State) TakeSelfTestFlag() bool {
	s.mu.Lock()
	v := s.selfTest
	s.selfTest = false
	s.mu.Unlock()
	return v
}
