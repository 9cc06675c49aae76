package callctl

import "context"

// FakeExecutor records commands and returns scripted replies.
type FakeExecutor struct {
	// Replies maps a full command to its reply. Commands not present get
	// DefaultReply.
	Replies      map[string]string
	DefaultReply string

	// Err, if set, is returned alongside the reply.
	Err error

	// Commands contains every command executed, in order.
	Commands []string
}

// NewFakeExecutor creates a FakeExecutor answering "+OK" by default.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		Replies:      make(map[string]string),
		DefaultReply: "+OK\n",
	}
}

// Execute records command and returns its scripted reply.
func (f *FakeExecutor) Execute(ctx context.Context, command string) (string, error) {
	f.Commands = append(f.Commands, command)
	reply, ok := f.Replies[command]
	if !ok {
		reply = f.DefaultReply
	}
	return reply, f.Err
}
