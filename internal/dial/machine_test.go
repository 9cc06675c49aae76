package dial

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// dialKeys feeds keys one at a time while off-hook and returns all events.
func dialKeys(m *Machine, keys string) []Event {
	var events []Event
	for i := 0; i < len(keys); i++ {
		events = append(events, m.Process(context.Background(), Input{
			OffHook: true,
			Key:     keys[i],
			Time:    t0.Add(time.Duration(i) * time.Second),
		})...)
	}
	return events
}

func offHook(m *Machine) []Event {
	return m.Process(context.Background(), Input{OffHook: true, Time: t0})
}

func onHook(m *Machine) []Event {
	return m.Process(context.Background(), Input{OffHook: false, Time: t0})
}

func TestNewMachine(t *testing.T) {
	m := NewMachine(NewFakeBackend("", ""), 0)
	if m.State() != StateOnHook {
		t.Errorf("expected ON_HOOK, got %s", m.State())
	}
	if m.buf.Cap() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, m.buf.Cap())
	}
}

func TestOffHookTransition(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)

	events := offHook(m)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventOffHook {
		t.Errorf("expected OFF_HOOK, got %s", events[0].Type)
	}
	if events[0].State != StateOffHook {
		t.Errorf("expected state OFF_HOOK_IDLE, got %s", events[0].State)
	}
	if len(be.Commands) != 0 {
		t.Errorf("off-hook should not issue commands, got %v", be.Commands)
	}

	// Staying off-hook is not another transition.
	if events := offHook(m); len(events) != 0 {
		t.Errorf("expected no events while staying off-hook, got %v", events)
	}
}

func TestOnHookWhileOnHookIsQuiet(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)

	if events := onHook(m); len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
	if len(be.Commands) != 0 {
		t.Errorf("expected no commands, got %v", be.Commands)
	}
}

func TestKeysIgnoredOnHook(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)

	events := m.Process(context.Background(), Input{OffHook: false, Key: '5', Time: t0})
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
	if m.Digits() != "" {
		t.Errorf("expected empty buffer, got %q", m.Digits())
	}
}

func TestDialAndPlaceCall(t *testing.T) {
	be := NewFakeBackend("pa-1", "0f3c")
	m := NewMachine(be, 0)
	offHook(m)

	events := dialKeys(m, "5551234567")
	if len(events) != 10 {
		t.Fatalf("expected 10 digit events, got %d", len(events))
	}
	for i, e := range events {
		if e.Type != EventDigit {
			t.Errorf("event %d: expected DIGIT, got %s", i, e.Type)
		}
	}
	if events[9].Digits != "5551234567" {
		t.Errorf("expected running digits 5551234567, got %q", events[9].Digits)
	}
	if len(be.Commands) != 0 {
		t.Errorf("digits should not issue commands, got %v", be.Commands)
	}

	events = dialKeys(m, "#")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Type != EventCallPlaced {
		t.Errorf("expected CALL_PLACED, got %s", e.Type)
	}
	if e.Digits != "5551234567" {
		t.Errorf("expected digits 5551234567, got %q", e.Digits)
	}
	if e.ChannelID != "pa-1" || e.CallID != "0f3c" {
		t.Errorf("unexpected ids: %q %q", e.ChannelID, e.CallID)
	}
	if len(be.Commands) != 1 || be.Commands[0] != "call 5551234567" {
		t.Errorf("expected [call 5551234567], got %v", be.Commands)
	}
	if m.Digits() != "" {
		t.Errorf("buffer should be cleared, got %q", m.Digits())
	}
	if m.State() != StateInCall {
		t.Errorf("expected IN_CALL, got %s", m.State())
	}
	if c := m.ActiveCall(); c.ChannelID != "pa-1" || c.CallID != "0f3c" {
		t.Errorf("unexpected active call: %+v", c)
	}
}

func TestCallFailureStaysIdle(t *testing.T) {
	be := NewFakeBackend("", "")
	be.CallResult = Result{OK: false, Reply: "FAIL:no device"}
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "123")

	events := dialKeys(m, "#")
	if len(events) != 1 || events[0].Type != EventCallFailed {
		t.Fatalf("expected CALL_FAILED, got %v", events)
	}
	if events[0].Reply != "FAIL:no device" {
		t.Errorf("expected reply to be carried, got %q", events[0].Reply)
	}
	if m.State() != StateOffHook {
		t.Errorf("expected OFF_HOOK_IDLE, got %s", m.State())
	}
	if m.Digits() != "" {
		t.Errorf("buffer should be cleared after failure, got %q", m.Digits())
	}

	// Dialing works again after a failure.
	be.CallResult = Result{OK: true}
	dialKeys(m, "9#")
	if be.Commands[len(be.Commands)-1] != "call 9" {
		t.Errorf("expected retry to dial 9, got %v", be.Commands)
	}
	if m.State() != StateInCall {
		t.Errorf("expected IN_CALL, got %s", m.State())
	}
}

func TestCallBackendError(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "42")

	be.Err = errors.New("executor gone")
	events := dialKeys(m, "#")
	if len(events) != 1 || events[0].Type != EventCallFailed {
		t.Fatalf("expected CALL_FAILED, got %v", events)
	}
	if m.State() != StateOffHook {
		t.Errorf("expected OFF_HOOK_IDLE, got %s", m.State())
	}
}

func TestDTMFInCall(t *testing.T) {
	be := NewFakeBackend("pa-1", "abc")
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "100#")
	be.Reset()

	events := dialKeys(m, "3")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventDTMF || events[0].Digits != "3" {
		t.Errorf("expected DTMF 3, got %+v", events[0])
	}
	if len(be.Commands) != 1 || be.Commands[0] != "dtmf 3" {
		t.Errorf("expected [dtmf 3], got %v", be.Commands)
	}
	if m.Digits() != "" {
		t.Errorf("DTMF should not touch the buffer, got %q", m.Digits())
	}
	if m.State() != StateInCall {
		t.Errorf("expected IN_CALL, got %s", m.State())
	}
}

func TestTerminatorInCallIsDTMF(t *testing.T) {
	be := NewFakeBackend("pa-1", "abc")
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "100#")
	be.Reset()

	dialKeys(m, "*#")
	want := []string{"dtmf *", "dtmf #"}
	if strings.Join(be.Commands, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, be.Commands)
	}
	if m.State() != StateInCall {
		t.Errorf("expected IN_CALL, got %s", m.State())
	}
}

func TestHangupInCall(t *testing.T) {
	be := NewFakeBackend("pa-1", "abc")
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "100#")
	be.Reset()

	events := onHook(m)
	if len(events) != 1 || events[0].Type != EventOnHook {
		t.Fatalf("expected ON_HOOK, got %v", events)
	}
	if len(be.Commands) != 1 || be.Commands[0] != "hangup" {
		t.Errorf("expected [hangup], got %v", be.Commands)
	}
	if m.State() != StateOnHook {
		t.Errorf("expected ON_HOOK, got %s", m.State())
	}
	if m.Digits() != "" {
		t.Errorf("expected empty buffer, got %q", m.Digits())
	}
	if c := m.ActiveCall(); c != (Call{}) {
		t.Errorf("expected call cleared, got %+v", c)
	}
}

func TestHangupWhileDialingClearsBuffer(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)
	offHook(m)
	dialKeys(m, "555")

	onHook(m)
	if m.Digits() != "" {
		t.Errorf("expected empty buffer, got %q", m.Digits())
	}
	if len(be.Commands) != 1 || be.Commands[0] != "hangup" {
		t.Errorf("expected [hangup], got %v", be.Commands)
	}

	// A new off-hook starts from scratch.
	offHook(m)
	dialKeys(m, "7#")
	if be.Commands[len(be.Commands)-1] != "call 7" {
		t.Errorf("expected call 7, got %v", be.Commands)
	}
}

func TestHangupErrorStillGoesOnHook(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)
	offHook(m)

	be.Err = errors.New("executor gone")
	onHook(m)
	if m.State() != StateOnHook {
		t.Errorf("expected ON_HOOK, got %s", m.State())
	}
}

func TestHookAndKeyInSameInput(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 0)

	events := m.Process(context.Background(), Input{OffHook: true, Key: '9', Time: t0})
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventOffHook || events[1].Type != EventDigit {
		t.Errorf("expected OFF_HOOK then DIGIT, got %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Key != 0 {
		t.Errorf("hook event should not carry a key, got %q", events[0].Key)
	}
}

func TestBufferOverflowDropsDigits(t *testing.T) {
	be := NewFakeBackend("", "")
	m := NewMachine(be, 4)
	offHook(m)

	events := dialKeys(m, "123456")
	var dropped int
	for _, e := range events {
		if e.Type == EventDigitDropped {
			dropped++
		}
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped digits, got %d", dropped)
	}
	if m.Digits() != "1234" {
		t.Errorf("expected buffer 1234, got %q", m.Digits())
	}

	dialKeys(m, "#")
	if be.Commands[0] != "call 1234" {
		t.Errorf("expected call 1234, got %v", be.Commands)
	}
}

func TestCounts(t *testing.T) {
	be := NewFakeBackend("a", "b")
	m := NewMachine(be, 2)
	offHook(m)
	dialKeys(m, "123#45")
	onHook(m)

	c := m.CountsSnapshot()
	want := Counts{OffHook: 1, OnHook: 1, Digits: 2, DigitsDropped: 1, CallsPlaced: 1, DTMF: 2}
	if c != want {
		t.Errorf("counts: got %+v, want %+v", c, want)
	}
}

func TestEventTimestamp(t *testing.T) {
	m := NewMachine(NewFakeBackend("", ""), 0)
	at := t0.Add(42 * time.Second)
	events := m.Process(context.Background(), Input{OffHook: true, Time: at})
	if !events[0].Timestamp.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, events[0].Timestamp)
	}
}
