// Package skillbeads is an optional integration with the bd (beads) issue tracker.
//
// Every call degrades gracefully: when bd is not installed, the project has no
// .beads directory, or an invocation fails, the call returns a neutral value
// (false, "" or an empty slice) instead of an error. Callers that need to know
// whether tracking is active check IsAvailable first.
//
//	client := skillbeads.New()
//	if id, ok := client.CreateIssue(ctx, skillbeads.CreateOptions{Title: "Add logging"}); ok {
//		client.AddDependency(ctx, id, "APP-001", skillbeads.DepBlocks)
//	}
package skillbeads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/infra/bd"
	"github.com/runoshun/skillbeads/internal/infra/executor"
	"github.com/runoshun/skillbeads/internal/infra/project"
)

// Types shared with the tracker.
type (
	Issue          = domain.Issue
	Status         = domain.Status
	IssueType      = domain.IssueType
	DependencyType = domain.DependencyType
	CreateOptions  = domain.CreateIssueOptions
	ReadyFilter    = domain.ReadyFilter
	Config         = domain.Config
	Logger         = domain.Logger
)

// Issue statuses.
const (
	StatusOpen       = domain.StatusOpen
	StatusInProgress = domain.StatusInProgress
	StatusBlocked    = domain.StatusBlocked
	StatusClosed     = domain.StatusClosed
)

// Issue types.
const (
	TypeBug     = domain.IssueTypeBug
	TypeFeature = domain.IssueTypeFeature
	TypeTask    = domain.IssueTypeTask
	TypeEpic    = domain.IssueTypeEpic
	TypeChore   = domain.IssueTypeChore
)

// Dependency types.
const (
	DepBlocks         = domain.DepBlocks
	DepRelated        = domain.DepRelated
	DepParentChild    = domain.DepParentChild
	DepDiscoveredFrom = domain.DepDiscoveredFrom
)

// Client talks to bd in one working directory.
// It is safe for concurrent use.
type Client struct {
	tracker domain.IssueTracker
	logger  domain.Logger
}

type options struct {
	logger domain.Logger
	bd     bd.Options
	dir    string
}

// Option configures a Client.
type Option func(*options)

// WithDir fixes the working directory. Without it the process working directory
// is resolved on every call.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithBinary sets the bd executable name or path.
func WithBinary(binary string) Option {
	return func(o *options) { o.bd.Binary = binary }
}

// WithTimeouts sets the availability probe and command timeouts.
// Non-positive values keep the defaults (2s and 5s).
func WithTimeouts(probe, command time.Duration) Option {
	return func(o *options) {
		o.bd.ProbeTimeout = probe
		o.bd.CommandTimeout = command
	}
}

// WithAvailabilityTTL sets how long a probe result is reused for a directory.
// Zero disables caching.
func WithAvailabilityTTL(ttl time.Duration) Option {
	return func(o *options) { o.bd.AvailabilityTTL = ttl }
}

// WithLogger records failures that calls otherwise swallow.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConfig applies the [bd] section of a loaded configuration.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.bd = bd.OptionsFromConfig(cfg.BD)
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	o := options{
		logger: domain.NopLogger{},
		bd:     bd.Options{AvailabilityTTL: domain.DefaultAvailabilityTTL},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = domain.NopLogger{}
	}
	o.bd.Logger = o.logger

	return &Client{
		tracker: bd.NewClient(o.dir, executor.NewClient(), project.NewLocator(), o.bd),
		logger:  o.logger,
	}
}

// newWithTracker is used by tests to swap the backend.
func newWithTracker(tracker domain.IssueTracker, logger domain.Logger) *Client {
	return &Client{tracker: tracker, logger: logger}
}

// collapse logs a failed outcome and reports success.
func collapse[T any](c *Client, op string, out domain.Outcome[T]) (T, bool) {
	var zero T
	if !out.OK() {
		c.logger.Debug("client", fmt.Sprintf("%s: %s: %v", op, out.Kind, out.Err))
		return zero, false
	}
	return out.Value, true
}

func done(err error) domain.Outcome[struct{}] {
	return domain.NewOutcome(struct{}{}, err)
}

// IsAvailable reports whether bd is installed, initialized for the working
// directory and answering. It never prints anything.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, ok := collapse(c, "probe", done(c.tracker.Probe(ctx)))
	return ok
}

// CreateIssue creates an issue and returns its id.
// It returns ("", false) when bd is unavailable or the call fails.
func (c *Client) CreateIssue(ctx context.Context, opts CreateOptions) (string, bool) {
	id, err := c.tracker.Create(ctx, opts)
	return collapse(c, "create", domain.NewOutcome(id, err))
}

// UpdateStatus sets an issue status. It reports whether the change was applied.
func (c *Client) UpdateStatus(ctx context.Context, id string, status Status) bool {
	_, ok := collapse(c, "update", done(c.tracker.UpdateStatus(ctx, id, status)))
	return ok
}

// CloseIssue closes an issue. An empty reason becomes "Completed".
func (c *Client) CloseIssue(ctx context.Context, id, reason string) bool {
	_, ok := collapse(c, "close", done(c.tracker.Close(ctx, id, reason)))
	return ok
}

// AddDependency declares that id cannot be ready until dependsOn is closed
// (for DepBlocks). An empty depType means DepBlocks.
func (c *Client) AddDependency(ctx context.Context, id, dependsOn string, depType DependencyType) bool {
	_, ok := collapse(c, "dep", done(c.tracker.AddDependency(ctx, id, dependsOn, depType)))
	return ok
}

// GetReadyIssues lists issues without open blockers.
// The result is never nil; it is empty when bd is unavailable or the call fails.
// A zero filter.Limit leaves the cap to bd, which returns at most 10 issues;
// set a larger limit to see all ready work.
func (c *Client) GetReadyIssues(ctx context.Context, filter ReadyFilter) []Issue {
	issues, err := c.tracker.Ready(ctx, filter)
	issues, ok := collapse(c, "ready", domain.NewOutcome(issues, err))
	if !ok || issues == nil {
		return []Issue{}
	}
	return issues
}

var defaultClient = sync.OnceValue(func() *Client { return New() })

// IsAvailable reports whether bd is usable in the current working directory.
func IsAvailable(ctx context.Context) bool {
	return defaultClient().IsAvailable(ctx)
}

// CreateIssue creates an issue in the current working directory.
func CreateIssue(ctx context.Context, opts CreateOptions) (string, bool) {
	return defaultClient().CreateIssue(ctx, opts)
}

// UpdateStatus sets an issue status in the current working directory.
func UpdateStatus(ctx context.Context, id string, status Status) bool {
	return defaultClient().UpdateStatus(ctx, id, status)
}

// CloseIssue closes an issue in the current working directory.
func CloseIssue(ctx context.Context, id, reason string) bool {
	return defaultClient().CloseIssue(ctx, id, reason)
}

// AddDependency declares a dependency in the current working directory.
func AddDependency(ctx context.Context, id, dependsOn string, depType DependencyType) bool {
	return defaultClient().AddDependency(ctx, id, dependsOn, depType)
}

// GetReadyIssues lists ready issues in the current working directory.
func GetReadyIssues(ctx context.Context, filter ReadyFilter) []Issue {
	return defaultClient().GetReadyIssues(ctx, filter)
}
