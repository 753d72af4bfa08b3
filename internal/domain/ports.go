package domain

import (
	"context"
	"time"
)

// Backend names reported by IssueTracker.Name.
const (
	BackendBD      = "bd"
	BackendSession = "session"
)

// IssueTracker is the operation surface shared by bd and the in-session fallback.
// Implementations return errors from errors.go; callers decide whether to
// surface them or collapse them.
type IssueTracker interface {
	// Name identifies the backend ("bd" or "session").
	Name() string

	// Probe reports whether the tracker can serve calls in its directory.
	Probe(ctx context.Context) error

	// Create creates an issue and returns its ID.
	Create(ctx context.Context, opts CreateIssueOptions) (string, error)

	// UpdateStatus sets the status of an issue.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Close closes an issue with a reason.
	Close(ctx context.Context, id, reason string) error

	// AddDependency declares that id cannot be ready until dependsOn is closed.
	AddDependency(ctx context.Context, id, dependsOn string, depType DependencyType) error

	// Ready lists issues with no unresolved blocking dependencies.
	Ready(ctx context.Context, filter ReadyFilter) ([]Issue, error)
}

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Run executes the command and waits for it to exit.
	// A non-zero exit is reported through ExecResult.ExitCode, not as an error.
	// Errors mean the command could not be started or did not finish in time.
	Run(ctx context.Context, cmd *ExecCommand) (*ExecResult, error)
}

// ProjectLocator resolves where a project and its beads store live.
type ProjectLocator interface {
	// Root returns the project root for dir (git worktree root, or dir itself).
	Root(dir string) string

	// FindBeadsDir walks up from dir looking for a .beads directory, as bd does.
	// Returns "" when none exists.
	FindBeadsDir(dir string) string
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + repo).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)

	// Sources lists the config files consulted, in merge order.
	Sources() []ConfigSource
}

// ConfigSource describes one config file a loader looks at.
type ConfigSource struct {
	Path   string
	Exists bool
}

// Logger writes diagnostic records. It must never write to the terminal.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
