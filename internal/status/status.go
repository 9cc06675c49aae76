// Package status provides a thread-safe status tracker for the switchpi
// daemon. The polling worker writes it; HTTP handlers and lifecycle MQTT
// events read snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/switchpi/internal/dial"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Driver      string
	I2CBus      string
	Address     uint16
	IRQLine     int // -1 when polling only
	Broker      string
	HTTPAddr    string
	API         string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         dial.State
	Digits        string
	LastKey       byte
	Port          byte // last GPIOA value seen
	Call          dial.Call
	Counts        dial.Counts
	ScanErrors    int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     dial.StateOnHook,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the state machine's view after a poll.
func (t *Tracker) Update(state dial.State, digits string, call dial.Call, counts dial.Counts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Digits = digits
	t.snap.Call = call
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetPort records the last port value and, when non-zero, the last key.
func (t *Tracker) SetPort(port, key byte) {
	t.mu.Lock()
	t.snap.Port = port
	if key != 0 {
		t.snap.LastKey = key
	}
	t.mu.Unlock()
}

// AddScanError counts a failed poll.
func (t *Tracker) AddScanError() {
	t.mu.Lock()
	t.snap.ScanErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
