// Package dial contains the hook and dial state machine of the phone.
// It has no knowledge of the keypad hardware or of how call-control
// commands reach the telephony backend.
package dial

import (
	"context"
	"time"
)

// State is the phone's call state.
type State string

const (
	StateOnHook  State = "ON_HOOK"
	StateOffHook State = "OFF_HOOK_IDLE"
	StateInCall  State = "IN_CALL"
)

// EventType identifies what the machine did in response to an input.
type EventType string

const (
	EventOffHook      EventType = "OFF_HOOK"
	EventOnHook       EventType = "ON_HOOK"
	EventDigit        EventType = "DIGIT"
	EventDigitDropped EventType = "DIGIT_DROPPED"
	EventCallPlaced   EventType = "CALL_PLACED"
	EventCallFailed   EventType = "CALL_FAILED"
	EventDTMF         EventType = "DTMF"
)

// Terminator ends the dial string and places the call.
const Terminator = '#'

// DefaultCapacity is the number of digits the dial buffer holds.
const DefaultCapacity = 31

// Event is something to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State  // state after the event
	Key       byte   // key involved, 0 for hook events
	Digits    string // dial string for CALL_* events, DTMF digits for DTMF
	ChannelID string // CALL_PLACED only
	CallID    string // CALL_PLACED only
	Reply     string // backend reply for CALL_*, DTMF and ON_HOOK
}

// Input is one change observed on the keypad port.
type Input struct {
	OffHook bool
	Key     byte // 0 when no key was decoded
	Time    time.Time
}

// Result is the structured outcome of a call-control command.
type Result struct {
	OK        bool
	ChannelID string
	CallID    string
	Reply     string // raw reply, for logging
}

// Backend executes call-control commands.
type Backend interface {
	Hangup(ctx context.Context) (Result, error)
	Call(ctx context.Context, digits string) (Result, error)
	DTMF(ctx context.Context, digits string) (Result, error)
}

// Counts tracks the number of each event type since startup.
type Counts struct {
	OffHook       int
	OnHook        int
	Digits        int
	DigitsDropped int
	CallsPlaced   int
	CallsFailed   int
	DTMF          int
}

// Call identifies the active call.
type Call struct {
	ChannelID string
	CallID    string
}
