// Package executor provides command execution functionality.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
)

// waitDelay bounds how long Wait blocks on open pipes after the process is killed.
const waitDelay = 500 * time.Millisecond

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// Run executes the command, waits for it and captures stdout and stderr separately.
// A non-zero exit status is returned in the result with a nil error.
// The child is always reaped, including when the timeout fires.
func (c *Client) Run(ctx context.Context, cmd *domain.ExecCommand) (*domain.ExecResult, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	// #nosec G204 - cmd.Program and cmd.Args come from trusted infra code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}
	execCmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()
	result := &domain.ExecResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: execCmd.ProcessState.ExitCode(),
	}

	if err == nil {
		return result, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", cmd.Program, domain.ErrToolMissing)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s after %s: %w", cmd.Program, cmd.Timeout, domain.ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w", cmd.Program, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, nil
	}
	return nil, fmt.Errorf("run %s: %w", cmd.Program, err)
}
