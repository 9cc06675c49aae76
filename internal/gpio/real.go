//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// LineWatcher watches an active-low interrupt line using the Linux GPIO
// character device.
type LineWatcher struct {
	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	edges chan struct{}
}

// NewLineWatcher requests offset on chip as an input with pull-up and
// falling-edge detection.
func NewLineWatcher(chip string, offset int) (*LineWatcher, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &LineWatcher{
		chip:  c,
		edges: make(chan struct{}, 1),
	}

	// MCP23017 INTA is active-low push-pull by default (IOCON.ODR=0,
	// INTPOL=0); the pull-up keeps the line defined while unconnected.
	line, err := c.RequestLine(offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(w.handle))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("request interrupt line %d: %w", offset, err)
	}
	w.line = line

	return w, nil
}

func (w *LineWatcher) handle(gpiocdev.LineEvent) {
	select {
	case w.edges <- struct{}{}:
	default:
	}
}

// Edges returns the wake-up channel.
func (w *LineWatcher) Edges() <-chan struct{} {
	return w.edges
}

// Close releases the line and chip.
func (w *LineWatcher) Close() error {
	var errs []error

	if w.line != nil {
		if err := w.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close interrupt line: %w", err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	return errors.Join(errs...)
}
