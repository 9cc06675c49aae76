package dial

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Machine tracks hook state and the dial string, and issues call-control
// commands. It is owned by the polling loop and not safe for concurrent use.
type Machine struct {
	backend Backend
	buf     *Buffer
	state   State
	call    Call
	counts  Counts
}

// NewMachine creates a machine in ON_HOOK with a dial buffer of the given
// capacity.
func NewMachine(backend Backend, capacity int) *Machine {
	return &Machine{
		backend: backend,
		buf:     NewBuffer(capacity),
		state:   StateOnHook,
	}
}

// Process applies one input and returns the events it produced. Hook
// changes are handled before the key.
func (m *Machine) Process(ctx context.Context, in Input) []Event {
	var events []Event

	switch {
	case in.OffHook && m.state == StateOnHook:
		events = append(events, m.offHook(in))
	case !in.OffHook && m.state != StateOnHook:
		events = append(events, m.onHook(ctx, in))
	}

	if in.Key != 0 && m.state != StateOnHook {
		events = append(events, m.key(ctx, in))
	}

	for _, e := range events {
		m.count(e.Type)
	}
	return events
}

func (m *Machine) offHook(in Input) Event {
	log.Printf("hook went off-hook")
	log.Printf("sending dial tone")
	m.state = StateOffHook
	e := m.event(in, EventOffHook)
	e.Key = 0
	return e
}

func (m *Machine) onHook(ctx context.Context, in Input) Event {
	res, err := m.backend.Hangup(ctx)
	if err != nil {
		log.Printf("hangup error: %v", err)
	} else {
		log.Printf("hangup reply [%s]", res.Reply)
	}
	log.Printf("hook went on-hook")

	m.state = StateOnHook
	m.call = Call{}
	m.buf.Reset()

	e := m.event(in, EventOnHook)
	e.Key = 0
	e.Reply = res.Reply
	return e
}

func (m *Machine) key(ctx context.Context, in Input) Event {
	log.Printf("keypress [%c]", in.Key)

	if m.state == StateInCall {
		return m.dtmf(ctx, in)
	}
	if in.Key == Terminator {
		return m.place(ctx, in)
	}

	if err := m.buf.Append(in.Key); err != nil {
		log.Warnf("dropping digit: %v", err)
		return m.event(in, EventDigitDropped)
	}
	e := m.event(in, EventDigit)
	e.Digits = m.buf.String()
	return e
}

func (m *Machine) place(ctx context.Context, in Input) Event {
	digits := m.buf.String()
	m.buf.Reset()

	log.Printf("placing call to [%s]", digits)
	res, err := m.backend.Call(ctx, digits)
	if err != nil {
		log.Printf("call error: %v", err)
	} else {
		log.Printf("call reply [%s]", res.Reply)
	}

	if err != nil || !res.OK {
		e := m.event(in, EventCallFailed)
		e.Digits = digits
		e.Reply = res.Reply
		return e
	}

	m.state = StateInCall
	m.call = Call{ChannelID: res.ChannelID, CallID: res.CallID}
	log.Printf("call channel [%s] id [%s]", res.ChannelID, res.CallID)

	e := m.event(in, EventCallPlaced)
	e.Digits = digits
	e.ChannelID = res.ChannelID
	e.CallID = res.CallID
	e.Reply = res.Reply
	return e
}

func (m *Machine) dtmf(ctx context.Context, in Input) Event {
	digits := string(in.Key)
	res, err := m.backend.DTMF(ctx, digits)
	if err != nil {
		log.Printf("dtmf error: %v", err)
	} else {
		log.Printf("dtmf reply [%s]", res.Reply)
	}

	e := m.event(in, EventDTMF)
	e.Digits = digits
	e.Reply = res.Reply
	return e
}

func (m *Machine) event(in Input, t EventType) Event {
	return Event{
		Timestamp: in.Time,
		Type:      t,
		State:     m.state,
		Key:       in.Key,
	}
}

func (m *Machine) count(t EventType) {
	switch t {
	case EventOffHook:
		m.counts.OffHook++
	case EventOnHook:
		m.counts.OnHook++
	case EventDigit:
		m.counts.Digits++
	case EventDigitDropped:
		m.counts.DigitsDropped++
	case EventCallPlaced:
		m.counts.CallsPlaced++
	case EventCallFailed:
		m.counts.CallsFailed++
	case EventDTMF:
		m.counts.DTMF++
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Digits returns the dial string accumulated so far.
func (m *Machine) Digits() string {
	return m.buf.String()
}

// ActiveCall returns the identifiers of the current call. Both fields are
// empty outside IN_CALL or when the backend did not report them.
func (m *Machine) ActiveCall() Call {
	return m.call
}

// CountsSnapshot returns a copy of the event counts.
func (m *Machine) CountsSnapshot() Counts {
	return m.counts
}
