//go:build linux

package irq

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/lightning-sensor/internal/event"
)

// RealLine drives the handler table from rising edges on a Linux GPIO
// character device line.
type RealLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu       sync.Mutex
	role     Role
	dispatch map[Role]func()
}

// NewRealLine opens the GPIO chip and requests the interrupt pin as an input
// with rising-edge event delivery. The line starts in the Normal role.
func NewRealLine(chipName string, pin int, state *event.State) (*RealLine, error) {
	l := &RealLine{
		role:     Normal,
		dispatch: handlers(state),
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Pull-down matches the chip's push-pull IRQ output idling low.
	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(l.handleEdge),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request irq pin %d: %w", pin, err)
	}

	l.chip = chip
	l.line = line
	return l, nil
}

// handleEdge is the sole event callback registered with the kernel. Every
// edge resolves the bound role under the same lock Bind takes, so at most
// one handler is reachable per edge and a rebind never leaves a window with
// two live handlers.
func (l *RealLine) handleEdge(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventRisingEdge {
		return
	}
	l.mu.Lock()
	h := l.dispatch[l.role]
	l.mu.Unlock()
	h()
}

// Bind switches the line to the given role.
func (l *RealLine) Bind(role Role) {
	l.mu.Lock()
	l.role = role
	l.mu.Unlock()
}

// Current returns the role currently bound.
func (l *RealLine) Current() Role {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.role
}

// Close releases the line and chip. The pin is reconfigured to a plain
// input first so edge events stop before the dispatch table goes away.
func (l *RealLine) Close() error {
	var errs []error

	if l.line != nil {
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure irq pin: %w", err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close irq pin: %w", err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
