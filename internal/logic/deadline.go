package logic

import "time"

// Ticks is a millisecond timestamp that wraps at 2^32, matching the
// millisecond counter of the original firmware. All comparisons must go
// through Due so they stay correct across the wrap.
type Ticks uint32

// TicksSince converts the elapsed time since start into Ticks. The wrap at
// 2^32 ms (about 49.7 days) is intentional.
func TicksSince(start, now time.Time) Ticks {
	return Ticks(now.Sub(start) / time.Millisecond)
}

// Due reports whether now is at or past deadline. The signed interpretation
// of the difference keeps the comparison correct across the 2^32 wrap, where
// a direct >= would invert (e.g. now=0xFFFFFFF0 against deadline=0x10 is not
// yet due; now=0x10 against deadline=0xFFFFFFF0 is).
func Due(now, deadline Ticks) bool {
	return int32(now-deadline) >= 0
}

// NextDeadline computes the deadline following a firing at time now. The
// next firing is anchored to now, not to the deadline that just passed, so
// execution delay shifts all subsequent firings later. That drift matches
// the original scheduler and is deliberate: maintenance runs block for tens
// of milliseconds and anchoring to the missed deadline would make the
// scheduler fire back-to-back trying to catch up.
func NextDeadline(now Ticks, period time.Duration) Ticks {
	return now + Ticks(period/time.Millisecond)
}
