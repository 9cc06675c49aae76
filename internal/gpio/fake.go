package gpio

// FakeWatcher is a test double whose edges are fired by the test.
type FakeWatcher struct {
	edges chan struct{}

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWatcher creates a FakeWatcher.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{edges: make(chan struct{}, 1)}
}

// Trigger simulates a falling edge. It reports false when an earlier edge
// is still pending and this one was coalesced.
func (f *FakeWatcher) Trigger() bool {
	select {
	case f.edges <- struct{}{}:
		return true
	default:
		return false
	}
}

// Edges returns the wake-up channel.
func (f *FakeWatcher) Edges() <-chan struct{} {
	return f.edges
}

// Close marks the watcher as closed.
func (f *FakeWatcher) Close() error {
	f.Closed = true
	return nil
}
