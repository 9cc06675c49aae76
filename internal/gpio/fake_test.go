package gpio

import "testing"

func TestFakeWatcherTrigger(t *testing.T) {
	f := NewFakeWatcher()

	if !f.Trigger() {
		t.Fatal("first trigger should be delivered")
	}
	select {
	case <-f.Edges():
	default:
		t.Fatal("expected a pending edge")
	}

	select {
	case <-f.Edges():
		t.Fatal("expected no further edges")
	default:
	}
}

func TestFakeWatcherCoalesces(t *testing.T) {
	f := NewFakeWatcher()

	f.Trigger()
	if f.Trigger() {
		t.Error("second trigger should be coalesced while the first is pending")
	}

	<-f.Edges()
	select {
	case <-f.Edges():
		t.Error("coalesced edge should not be delivered")
	default:
	}
}

func TestFakeWatcherClose(t *testing.T) {
	f := NewFakeWatcher()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeWatcherImplementsWatcher(t *testing.T) {
	var _ Watcher = NewFakeWatcher()
}
