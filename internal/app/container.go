// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/infra/bd"
	"github.com/runoshun/skillbeads/internal/infra/config"
	"github.com/runoshun/skillbeads/internal/infra/executor"
	"github.com/runoshun/skillbeads/internal/infra/logging"
	"github.com/runoshun/skillbeads/internal/infra/memory"
	"github.com/runoshun/skillbeads/internal/infra/project"
	"github.com/runoshun/skillbeads/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	WorkDir  string // Directory the CLI was started in
	RepoRoot string // Project root (git worktree root, or WorkDir outside git)
	LogDir   string // Directory for skillbeads.log (empty = logging disabled)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tracker      domain.IssueTracker // bd
	Session      domain.IssueTracker // In-session fallback (nil when disabled)
	Locator      domain.ProjectLocator
	ConfigLoader domain.ConfigLoader
	Clock        domain.Clock
	Logger       domain.Logger

	// Pointer fields
	AppConfig *domain.Config
	closeLog  func() error

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir string) (*Container, error) {
	locator := project.NewLocator()
	root := locator.Root(dir)

	configLoader := config.NewLoader(root)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		WorkDir:  dir,
		RepoRoot: root,
		LogDir:   resolveLogDir(appConfig.Log.Dir),
	}

	logger := logging.New(cfg.LogDir, logging.ParseLevel(appConfig.Log.Level))
	clock := domain.RealClock{}

	opts := bd.OptionsFromConfig(appConfig.BD)
	opts.Logger = logger
	opts.Clock = clock
	tracker := bd.NewClient(dir, executor.NewClient(), locator, opts)

	var session domain.IssueTracker
	if appConfig.Fallback.IsEnabled() {
		session = memory.New(appConfig.Fallback.PrefixOrDefault(), clock)
	}

	return &Container{
		Tracker:      tracker,
		Session:      session,
		Locator:      locator,
		ConfigLoader: configLoader,
		Clock:        clock,
		Logger:       logger,
		AppConfig:    appConfig,
		closeLog:     logger.Close,
		Config:       cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tracker, session domain.IssueTracker, locator domain.ProjectLocator, configLoader domain.ConfigLoader) *Container {
	appConfig := domain.NewDefaultConfig()
	if configLoader != nil {
		if loaded, err := configLoader.Load(); err == nil {
			appConfig = loaded
		}
	}
	return &Container{
		Tracker:      tracker,
		Session:      session,
		Locator:      locator,
		ConfigLoader: configLoader,
		Clock:        domain.RealClock{},
		Logger:       domain.NopLogger{},
		AppConfig:    appConfig,
		Config:       cfg,
	}
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// resolveLogDir returns the configured log directory, or the default under
// XDG_STATE_HOME (~/.local/state).
func resolveLogDir(configured string) string {
	if configured != "" {
		return configured
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return domain.DefaultLogDir(stateHome)
}

// UseCase factory methods

// TrackerSelector returns the backend selector shared by tracker use cases.
func (c *Container) TrackerSelector() *usecase.TrackerSelector {
	return usecase.NewTrackerSelector(c.Tracker, c.Session, c.Logger)
}

// CheckAvailabilityUseCase returns a new CheckAvailability use case.
func (c *Container) CheckAvailabilityUseCase() *usecase.CheckAvailability {
	return usecase.NewCheckAvailability(c.Tracker, c.Locator)
}

// CreateIssueUseCase returns a new CreateIssue use case.
func (c *Container) CreateIssueUseCase() *usecase.CreateIssue {
	return usecase.NewCreateIssue(c.TrackerSelector(), c.Logger)
}

// UpdateStatusUseCase returns a new UpdateStatus use case.
func (c *Container) UpdateStatusUseCase() *usecase.UpdateStatus {
	return usecase.NewUpdateStatus(c.TrackerSelector(), c.Logger)
}

// CloseIssueUseCase returns a new CloseIssue use case.
func (c *Container) CloseIssueUseCase() *usecase.CloseIssue {
	return usecase.NewCloseIssue(c.TrackerSelector(), c.Logger)
}

// AddDependencyUseCase returns a new AddDependency use case.
func (c *Container) AddDependencyUseCase() *usecase.AddDependency {
	return usecase.NewAddDependency(c.TrackerSelector(), c.Logger)
}

// ListReadyUseCase returns a new ListReady use case.
func (c *Container) ListReadyUseCase() *usecase.ListReady {
	return usecase.NewListReady(c.TrackerSelector())
}

// ImportPlanUseCase returns a new ImportPlan use case.
func (c *Container) ImportPlanUseCase() *usecase.ImportPlan {
	return usecase.NewImportPlan(c.TrackerSelector(), c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader)
}
