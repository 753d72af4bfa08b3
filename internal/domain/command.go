package domain

import "time"

// ExecCommand represents an external command to be executed.
// This type is used to pass command information between layers
// without exposing implementation details.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
	Env     []string      // Extra KEY=VALUE pairs appended to the inherited environment
	Timeout time.Duration // Zero means no timeout beyond the caller's context
}

// ExecResult is the captured outcome of a finished command.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// NewCommand creates an ExecCommand for program with args, run in dir.
func NewCommand(program string, args []string, dir string) *ExecCommand {
	return &ExecCommand{
		Program: program,
		Args:    args,
		Dir:     dir,
	}
}

// NewShellCommand creates an ExecCommand that runs script with sh -c.
func NewShellCommand(script, dir string) *ExecCommand {
	return NewCommand("sh", []string{"-c", script}, dir)
}
