// Package logic contains pure logic for the lightning-sensor daemon.
// This package has NO external dependencies (no GPIO, I2C, OS, or time.Sleep).
// Time enters only as millisecond tick values passed in by the caller.
package logic

// Reason classifies a detection interrupt reported by the chip.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoisy
	ReasonDisturber
	ReasonStrike
	ReasonUnknown
)

// Raw interrupt-reason codes from the chip's INT field (REG0x03 bits [3:0]).
const (
	codeNone      = 0x00
	codeNoisy     = 0x01 // noise level too high
	codeDisturber = 0x04 // disturber detected
	codeStrike    = 0x08 // lightning strike
)

// ReasonFromCode maps a raw chip code to a Reason. Codes outside the
// documented set degrade to ReasonUnknown rather than failing.
func ReasonFromCode(code byte) Reason {
	switch code {
	case codeNone:
		return ReasonNone
	case codeNoisy:
		return ReasonNoisy
	case codeDisturber:
		return ReasonDisturber
	case codeStrike:
		return ReasonStrike
	default:
		return ReasonUnknown
	}
}

// String returns the report label for the reason. The labels (typo included)
// match the original Striker firmware output byte for byte.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "None?"
	case ReasonNoisy:
		return "Noisy"
	case ReasonDisturber:
		return "Disturber"
	case ReasonStrike:
		return "Strike"
	default:
		return "Unkown ISR"
	}
}
