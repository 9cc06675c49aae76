// Package callctl adapts the dial state machine's Backend contract to a
// text command executor such as the FreeSWITCH CLI. All reply parsing
// lives here; the state machine only sees dial.Result.
package callctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweeney/switchpi/internal/dial"
)

// DefaultAPI is the FreeSWITCH PortAudio API that accepts the commands.
const DefaultAPI = "pa"

// Executor runs one text command and returns its reply.
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Client implements dial.Backend on top of an Executor.
type Client struct {
	exec Executor
	api  string
}

var _ dial.Backend = (*Client)(nil)

// NewClient creates a Client. api prefixes every command; empty selects
// DefaultAPI.
func NewClient(exec Executor, api string) *Client {
	if api == "" {
		api = DefaultAPI
	}
	return &Client{exec: exec, api: api}
}

// Hangup ends the current call.
func (c *Client) Hangup(ctx context.Context) (dial.Result, error) {
	return c.run(ctx, "hangup")
}

// Call dials digits.
func (c *Client) Call(ctx context.Context, digits string) (dial.Result, error) {
	return c.run(ctx, "call "+digits)
}

// DTMF sends digits on the live call.
func (c *Client) DTMF(ctx context.Context, digits string) (dial.Result, error) {
	return c.run(ctx, "dtmf "+digits)
}

func (c *Client) run(ctx context.Context, args string) (dial.Result, error) {
	cmd := c.api + " " + args
	reply, err := c.exec.Execute(ctx, cmd)
	if err != nil {
		return dial.Result{Reply: strings.TrimSpace(reply)}, fmt.Errorf("%s: %w", cmd, err)
	}
	return ParseReply(reply), nil
}

// ParseReply interprets a backend reply. A reply is successful when it
// starts with "success" in any case. A successful reply of exactly three
// colon-separated fields carries the channel id and call id:
//
//	SUCCESS:<channel>:<call>
func ParseReply(reply string) dial.Result {
	reply = strings.TrimSpace(reply)
	res := dial.Result{Reply: reply}

	if len(reply) < len("success") || !strings.EqualFold(reply[:len("success")], "success") {
		return res
	}
	res.OK = true

	fields := strings.SplitN(reply, ":", 4)
	if len(fields) == 3 {
		res.ChannelID = fields[1]
		res.CallID = fields[2]
	}
	return res
}
