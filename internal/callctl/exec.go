package callctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// DefaultCommand runs API commands through the FreeSWITCH CLI.
const DefaultCommand = "fs_cli -x"

// ErrNoCommand is returned when the command line is empty.
var ErrNoCommand = errors.New("callctl: empty command line")

// CommandExecutor runs a fixed command line with the API command appended
// as its last argument, e.g. `fs_cli -x "pa call 5551234567"`.
type CommandExecutor struct {
	argv    []string
	timeout time.Duration
}

// NewCommandExecutor splits cmdline with shell quoting rules. A zero
// timeout disables the per-command deadline.
func NewCommandExecutor(cmdline string, timeout time.Duration) (*CommandExecutor, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	return &CommandExecutor{argv: argv, timeout: timeout}, nil
}

// Execute runs the command line and returns its standard output.
func (e *CommandExecutor) Execute(ctx context.Context, command string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), e.argv[1:]...), command)
	cmd := exec.CommandContext(ctx, e.argv[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%s: %w: %s", e.argv[0], err, msg)
		}
		return stdout.String(), fmt.Errorf("%s: %w", e.argv[0], err)
	}
	return stdout.String(), nil
}

// Argv returns a copy of the parsed command line.
func (e *CommandExecutor) Argv() []string {
	return append([]string(nil), e.argv...)
}
