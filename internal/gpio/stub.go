//go:build !linux

package gpio

import "errors"

// LineWatcher is not available on non-Linux platforms.
type LineWatcher struct{}

// NewLineWatcher returns an error on non-Linux platforms.
func NewLineWatcher(chip string, offset int) (*LineWatcher, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Edges returns nil on non-Linux platforms.
func (w *LineWatcher) Edges() <-chan struct{} {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (w *LineWatcher) Close() error {
	return nil
}
