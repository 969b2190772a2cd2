// Package report provides the line-oriented status sink with abstraction for
// testing. The output strings are a stable protocol: downstream log scrapers
// match them literally, so they must not be reworded.
package report

// Startup banner and event prefix, matched byte for byte by consumers.
const (
	StartupLine = "Striker starting"
	EventPrefix = "ISR: "

	CalibrationFailedLine = "Calibration failed"
	SelfTestFailedLine    = "BIT failed"
)

// Reporter emits status text.
type Reporter interface {
	// Line writes s followed by a newline.
	Line(s string) error

	// Heartbeat writes the bare heartbeat character, no newline.
	Heartbeat() error
}
