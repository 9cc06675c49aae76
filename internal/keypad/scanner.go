package keypad

import "fmt"

// Device is the subset of the expander the scanner needs.
type Device interface {
	// ReadGPIO returns the port value in the idle direction.
	ReadGPIO() (byte, error)

	// ReadColumns returns the port value with rows driving and columns sensing.
	ReadColumns() (byte, error)
}

// Event is produced for every change of the port value.
type Event struct {
	// Snapshot is the port value that triggered the event.
	Snapshot byte
	// Row and Col are 1-based, 0 when unresolved.
	Row int
	Col int
	// Key is the decoded character, 0 unless both Row and Col resolved.
	Key byte
}

// HasKey reports whether a key was decoded.
func (e Event) HasKey() bool {
	return e.Key != 0
}

// Scanner detects port changes and resolves the pressed key. There is no
// debounce: any change of the raw byte between polls is an event, and when
// several keys are held the highest priority row and column win.
type Scanner struct {
	dev      Device
	previous byte
	gate     func(snapshot byte) bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRowGate makes the scanner resolve rows only when gate returns true
// for the new snapshot. Changes are still reported.
func WithRowGate(gate func(snapshot byte) bool) Option {
	return func(s *Scanner) {
		s.gate = gate
	}
}

// NewScanner creates a scanner. The previous value starts at 0 so the
// first poll always reports the idle port state.
func NewScanner(dev Device, opts ...Option) *Scanner {
	s := &Scanner{dev: dev}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll reads the port once. It returns changed=false when the value equals
// the previous poll.
func (s *Scanner) Poll() (ev Event, changed bool, err error) {
	current, err := s.dev.ReadGPIO()
	if err != nil {
		return Event{}, false, fmt.Errorf("poll: %w", err)
	}
	if current == s.previous {
		return Event{}, false, nil
	}
	s.previous = current

	ev = Event{Snapshot: current}
	if s.gate != nil && !s.gate(current) {
		return ev, true, nil
	}

	ev.Row = ResolveRow(current)
	if ev.Row == 0 {
		return ev, true, nil
	}

	cols, err := s.dev.ReadColumns()
	if err != nil {
		// The change is consumed; the next differing byte starts over.
		return ev, true, fmt.Errorf("poll row %d: %w", ev.Row, err)
	}
	ev.Col = ResolveColumn(cols)
	if ev.Col != 0 {
		ev.Key = KeyAt(ev.Row, ev.Col)
	}
	return ev, true, nil
}

// Previous returns the last observed port value.
func (s *Scanner) Previous() byte {
	return s.previous
}
