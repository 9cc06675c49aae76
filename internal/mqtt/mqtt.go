// Package mqtt publishes phone events with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/switchpi/internal/dial"
)

// Topic is the MQTT topic for phone events.
const Topic = "switchpi/phone/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "switchpi/phone/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a phone event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event dial.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted payload; if set, FormatSystemPayload returns it
	Retained   bool
}

// Payload is the MQTT message for a phone event.
type Payload struct {
	Phone PhonePayload `json:"phone"`
}

// PhonePayload contains the phone event details.
type PhonePayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Key       string `json:"key,omitempty"`
	Digits    string `json:"digits,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Reply     string `json:"reply,omitempty"`
}

// FormatPayload creates the JSON payload for a phone event.
func FormatPayload(event dial.Event) ([]byte, error) {
	p := PhonePayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		State:     string(event.State),
		Digits:    event.Digits,
		ChannelID: event.ChannelID,
		CallID:    event.CallID,
		Reply:     event.Reply,
	}
	if event.Key != 0 {
		p.Key = string(event.Key)
	}
	return json.Marshal(Payload{Phone: p})
}

// SystemPayload is the payload for simple system events (will, reconnect)
// that carry no status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
