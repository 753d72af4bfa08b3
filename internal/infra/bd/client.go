// Package bd wraps the bd (beads) issue tracker command-line tool.
package bd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
)

// BackendName identifies this tracker in use case outputs.
const BackendName = domain.BackendBD

// Options configures a Client. Zero values fall back to domain defaults.
type Options struct {
	Logger          domain.Logger
	Clock           domain.Clock
	Binary          string
	ProbeTimeout    time.Duration
	CommandTimeout  time.Duration
	AvailabilityTTL time.Duration
}

// OptionsFromConfig builds Options from the [bd] config section.
func OptionsFromConfig(cfg domain.BDConfig) Options {
	return Options{
		Binary:          cfg.BinaryOrDefault(),
		ProbeTimeout:    cfg.ProbeTimeoutDuration(),
		CommandTimeout:  cfg.CommandTimeoutDuration(),
		AvailabilityTTL: cfg.AvailabilityTTLDuration(),
	}
}

// Client runs bd subcommands in a working directory.
// Fields are ordered to minimize memory padding.
type Client struct {
	executor       domain.CommandExecutor
	locator        domain.ProjectLocator
	logger         domain.Logger
	cache          *availabilityCache
	getwd          func() (string, error)
	dir            string // Fixed working directory; empty = resolve per call
	binary         string
	probeTimeout   time.Duration
	commandTimeout time.Duration
}

// Ensure Client implements domain.IssueTracker interface.
var _ domain.IssueTracker = (*Client)(nil)

// NewClient creates a bd client.
// dir fixes the working directory; pass "" to use the process working directory
// at the time of each call.
func NewClient(dir string, executor domain.CommandExecutor, locator domain.ProjectLocator, opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = domain.DefaultBinary
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = domain.DefaultProbeTimeout
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = domain.DefaultCommandTimeout
	}
	if opts.Logger == nil {
		opts.Logger = domain.NopLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	return &Client{
		executor:       executor,
		locator:        locator,
		logger:         opts.Logger,
		cache:          newAvailabilityCache(opts.AvailabilityTTL, opts.Clock),
		getwd:          os.Getwd,
		dir:            dir,
		binary:         opts.Binary,
		probeTimeout:   opts.ProbeTimeout,
		commandTimeout: opts.CommandTimeout,
	}
}

// Name returns the backend name.
func (c *Client) Name() string {
	return BackendName
}

// workDir returns the absolute directory bd runs in.
func (c *Client) workDir() (string, error) {
	dir := c.dir
	if dir == "" {
		wd, err := c.getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", domain.ErrToolUninitialized)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, domain.ErrToolUninitialized)
	}
	return abs, nil
}

// Probe checks that bd is installed, initialized and answering in the working directory.
func (c *Client) Probe(ctx context.Context) error {
	dir, err := c.workDir()
	if err != nil {
		return err
	}
	return c.probeDir(ctx, dir)
}

func (c *Client) probeDir(ctx context.Context, dir string) error {
	return c.cache.check(ctx, dir, func(ctx context.Context) error {
		err := c.probe(ctx, dir)
		if err != nil {
			c.logger.Debug("probe", fmt.Sprintf("%s: unavailable: %v", dir, err))
		} else {
			c.logger.Debug("probe", fmt.Sprintf("%s: available", dir))
		}
		return err
	})
}

// probe runs the lightweight listing that decides availability.
func (c *Client) probe(ctx context.Context, dir string) error {
	if c.locator.FindBeadsDir(dir) == "" {
		return domain.ErrToolUninitialized
	}

	res, err := c.executor.Run(ctx, &domain.ExecCommand{
		Program: c.binary,
		Args:    []string{"list", "--limit", "1"},
		Dir:     dir,
		Timeout: c.probeTimeout,
	})
	if err != nil {
		return classifyRunError(err)
	}
	if res.ExitCode != 0 {
		return exitError("list", res)
	}
	return nil
}

// Create creates an issue and returns the id bd assigned.
func (c *Client) Create(ctx context.Context, opts domain.CreateIssueOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	args := []string{"create", "--title", opts.Title, "--type", string(opts.Type)}
	if opts.Description != "" {
		args = append(args, "--description", opts.Description)
	}
	if opts.Priority != nil {
		args = append(args, "--priority", strconv.Itoa(*opts.Priority))
	}
	if len(opts.Labels) > 0 {
		args = append(args, "--labels", strings.Join(opts.Labels, ","))
	}
	if len(opts.Deps) > 0 {
		args = append(args, "--deps", strings.Join(opts.Deps, ","))
	}
	args = append(args, "--json")

	res, err := c.run(ctx, args)
	if err != nil {
		return "", err
	}
	id, err := parseCreatedID(res.Stdout)
	if err != nil {
		c.logger.Warn("bd", fmt.Sprintf("create: %v", err))
		return "", err
	}
	c.logger.Info("bd", fmt.Sprintf("created %s: %s", id, opts.Title))
	return id, nil
}

// UpdateStatus sets the status of an issue.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyIssueID
	}
	if !status.IsValid() {
		return fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}
	if _, err := c.run(ctx, []string{"update", id, "--status", string(status)}); err != nil {
		return err
	}
	c.logger.Info("bd", fmt.Sprintf("%s -> %s", id, status))
	return nil
}

// Close closes an issue. An empty reason becomes domain.DefaultCloseReason.
func (c *Client) Close(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyIssueID
	}
	if reason == "" {
		reason = domain.DefaultCloseReason
	}
	if _, err := c.run(ctx, []string{"close", id, "--reason", reason}); err != nil {
		return err
	}
	c.logger.Info("bd", fmt.Sprintf("closed %s: %s", id, reason))
	return nil
}

// AddDependency declares that id depends on dependsOn.
func (c *Client) AddDependency(ctx context.Context, id, dependsOn string, depType domain.DependencyType) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(dependsOn) == "" {
		return domain.ErrEmptyIssueID
	}
	if id == dependsOn {
		return domain.ErrSelfDependency
	}
	depType, err := domain.ParseDependencyType(string(depType))
	if err != nil {
		return err
	}
	if _, err := c.run(ctx, []string{"dep", "add", id, dependsOn, "--type", string(depType)}); err != nil {
		return err
	}
	c.logger.Info("bd", fmt.Sprintf("%s %s %s", dependsOn, depType, id))
	return nil
}

// Ready lists issues without open blockers.
func (c *Client) Ready(ctx context.Context, filter domain.ReadyFilter) ([]domain.Issue, error) {
	args := []string{"ready", "--json"}
	if filter.Assignee != "" {
		args = append(args, "--assignee", filter.Assignee)
	}
	if filter.Priority != nil {
		args = append(args, "--priority", strconv.Itoa(*filter.Priority))
	}
	if filter.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(filter.Limit))
	}

	res, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	issues, err := parseIssueList(res.Stdout)
	if err != nil {
		c.logger.Warn("bd", fmt.Sprintf("ready: %v", err))
		return nil, err
	}
	return issues, nil
}

// run probes availability and then executes one bd subcommand.
func (c *Client) run(ctx context.Context, args []string) (*domain.ExecResult, error) {
	dir, err := c.workDir()
	if err != nil {
		return nil, err
	}
	if err := c.probeDir(ctx, dir); err != nil {
		return nil, err
	}

	res, err := c.executor.Run(ctx, &domain.ExecCommand{
		Program: c.binary,
		Args:    args,
		Dir:     dir,
		Timeout: c.commandTimeout,
	})
	if err != nil {
		err = classifyRunError(err)
		if domain.IsUnavailable(err) {
			c.cache.invalidate(dir)
		}
		c.logger.Debug("bd", fmt.Sprintf("%s: %v", args[0], err))
		return nil, err
	}
	if res.ExitCode != 0 {
		err := exitError(args[0], res)
		c.logger.Debug("bd", err.Error())
		return nil, err
	}
	return res, nil
}

// classifyRunError maps executor errors onto the tracker error taxonomy.
func classifyRunError(err error) error {
	if errors.Is(err, domain.ErrToolMissing) {
		return err
	}
	// Timeouts and cancellation keep their own sentinel alongside InvocationFailed.
	return fmt.Errorf("%w: %w", domain.ErrInvocationFailed, err)
}

// exitError describes a non-zero bd exit. bd reports unknown ids on stderr,
// which is surfaced as ErrIssueNotFound in addition to ErrInvocationFailed.
func exitError(subcommand string, res *domain.ExecResult) error {
	msg := strings.TrimSpace(string(res.Stderr))
	if msg == "" {
		msg = strings.TrimSpace(string(res.Stdout))
	}
	lower := strings.ToLower(msg)

	base := fmt.Errorf("bd %s: exit %d: %s: %w", subcommand, res.ExitCode, msg, domain.ErrInvocationFailed)
	switch {
	case strings.Contains(lower, "no beads database") || strings.Contains(lower, "not initialized"):
		return fmt.Errorf("%w: %w", domain.ErrToolUninitialized, base)
	case strings.Contains(lower, "not found"):
		return fmt.Errorf("%w: %w", domain.ErrIssueNotFound, base)
	default:
		return base
	}
}
