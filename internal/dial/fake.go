package dial

import (
	"context"
	"fmt"
)

// FakeBackend records call-control commands for test assertions.
type FakeBackend struct {
	// Commands contains every command issued, formatted as "hangup",
	// "call <digits>" or "dtmf <digits>".
	Commands []string

	// CallResult is returned by Call.
	CallResult Result

	// Err, if set, is returned by every command.
	Err error
}

// NewFakeBackend creates a FakeBackend whose calls succeed with the given
// channel and call ids.
func NewFakeBackend(channelID, callID string) *FakeBackend {
	return &FakeBackend{
		CallResult: Result{
			OK:        true,
			ChannelID: channelID,
			CallID:    callID,
			Reply:     fmt.Sprintf("SUCCESS:%s:%s", channelID, callID),
		},
	}
}

// Hangup records a hangup.
func (f *FakeBackend) Hangup(ctx context.Context) (Result, error) {
	f.Commands = append(f.Commands, "hangup")
	if f.Err != nil {
		return Result{}, f.Err
	}
	return Result{OK: true, Reply: "SUCCESS"}, nil
}

// Call records a call and returns CallResult.
func (f *FakeBackend) Call(ctx context.Context, digits string) (Result, error) {
	f.Commands = append(f.Commands, "call "+digits)
	if f.Err != nil {
		return Result{}, f.Err
	}
	return f.CallResult, nil
}

// DTMF records a DTMF command.
func (f *FakeBackend) DTMF(ctx context.Context, digits string) (Result, error) {
	f.Commands = append(f.Commands, "dtmf "+digits)
	if f.Err != nil {
		return Result{}, f.Err
	}
	return Result{OK: true, Reply: "SUCCESS"}, nil
}

// Reset clears recorded commands.
func (f *FakeBackend) Reset() {
	f.Commands = nil
}
