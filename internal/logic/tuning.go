package logic

// Oscillator tuning constants. The antenna resonates at a nominal 500 kHz;
// the chip divides the local oscillator by 16 before routing it to the
// interrupt pin, giving 31.25 kHz. Over the 40 ms measurement window that is
// TuneTarget = 500000/16 * 0.040 = 1250 pulses. TuneErrThreshold is the
// datasheet's 3.5% antenna tolerance applied to that target.
const (
	TuneCapValues    = 16
	TuneTarget       = 1250
	TuneErrThreshold = 43
)

// TrialResult is the outcome of measuring one tuning-capacitor value.
type TrialResult struct {
	TuneCap uint8
	Count   uint32
	Err     uint32
}

// AbsError returns |count - TuneTarget| without going through signed math.
func AbsError(count uint32) uint32 {
	if count >= TuneTarget {
		return count - TuneTarget
	}
	return TuneTarget - count
}

// BestTrial returns the trial with the smallest error. Ties keep the
// earliest (lowest tune cap) trial. Panics on an empty slice; the tuner
// always sweeps all 16 values.
func BestTrial(trials []TrialResult) TrialResult {
	best := trials[0]
	for _, tr := range trials[1:] {
		if tr.Err < best.Err {
			best = tr
		}
	}
	return best
}
