package report

import (
	"fmt"
	"io"
)

// Writer reports to an io.Writer, one status line at a time.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer reporting to w (typically os.Stdout).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Line writes s followed by a newline.
func (r *Writer) Line(s string) error {
	if _, err := fmt.Fprintln(r.w, s); err != nil {
		return fmt.Errorf("report line: %w", err)
	}
	return nil
}

// Heartbeat writes a single "." with no newline, so consecutive heartbeats
// form a progress row on the console.
func (r *Writer) Heartbeat() error {
	if _, err := io.WriteString(r.w, "."); err != nil {
		return fmt.Errorf("report heartbeat: %w", err)
	}
	return nil
}
