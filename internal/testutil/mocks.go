// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NowTime = m.NowTime.Add(d)
}

// MockResponse is a canned command result.
type MockResponse struct {
	Err      error
	Stdout   string
	Stderr   string
	ExitCode int
}

// MockExecutor is a test double for domain.CommandExecutor.
// Responses are keyed by the first argument (the bd subcommand).
// Unknown subcommands succeed with empty output.
type MockExecutor struct {
	Responses map[string]MockResponse
	Handler   func(cmd *domain.ExecCommand) (*domain.ExecResult, error) // Overrides Responses when set
	Calls     []domain.ExecCommand
	mu        sync.Mutex
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Responses: make(map[string]MockResponse)}
}

// Run records the command and returns the scripted response.
func (m *MockExecutor) Run(_ context.Context, cmd *domain.ExecCommand) (*domain.ExecResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, *cmd)
	handler := m.Handler
	var resp MockResponse
	if len(cmd.Args) > 0 {
		resp = m.Responses[cmd.Args[0]]
	}
	m.mu.Unlock()

	if handler != nil {
		return handler(cmd)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &domain.ExecResult{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}, nil
}

// CallsFor returns recorded calls whose first argument is subcommand.
func (m *MockExecutor) CallsFor(subcommand string) []domain.ExecCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []domain.ExecCommand
	for _, c := range m.Calls {
		if len(c.Args) > 0 && c.Args[0] == subcommand {
			calls = append(calls, c)
		}
	}
	return calls
}

// MockLocator is a test double for domain.ProjectLocator.
// Directories listed in Initialized have a .beads marker.
type MockLocator struct {
	Initialized map[string]bool
	mu          sync.Mutex
}

// NewMockLocator creates a MockLocator with the given initialized directories.
func NewMockLocator(initialized ...string) *MockLocator {
	m := &MockLocator{Initialized: make(map[string]bool)}
	for _, dir := range initialized {
		m.Initialized[dir] = true
	}
	return m
}

// Root returns dir unchanged.
func (m *MockLocator) Root(dir string) string {
	return dir
}

// FindBeadsDir returns dir/.beads for initialized directories.
func (m *MockLocator) FindBeadsDir(dir string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Initialized[dir] {
		return filepath.Join(dir, domain.BeadsDirName)
	}
	return ""
}

// SetInitialized marks dir as initialized or not.
func (m *MockLocator) SetInitialized(dir string, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Initialized[dir] = v
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.record("debug", category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.record("info", category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(category, msg string) { m.record("warn", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.record("error", category, msg) }

// MockTracker is a test double for domain.IssueTracker.
// Fields are ordered to minimize memory padding.
type MockTracker struct {
	ProbeErr  error
	CreateErr error
	UpdateErr error
	CloseErr  error
	DepErr    error
	ReadyErr  error
	Created   []domain.CreateIssueOptions
	Updated   map[string]domain.Status
	Closed    map[string]string
	Deps      []domain.Dependency
	ReadyList []domain.Issue
	BackendID string
	nextID    int
	mu        sync.Mutex
}

// NewMockTracker creates a MockTracker named name.
func NewMockTracker(name string) *MockTracker {
	return &MockTracker{
		BackendID: name,
		Updated:   make(map[string]domain.Status),
		Closed:    make(map[string]string),
	}
}

// Name returns the configured backend name.
func (m *MockTracker) Name() string { return m.BackendID }

// Probe returns ProbeErr.
func (m *MockTracker) Probe(context.Context) error { return m.ProbeErr }

// Create records opts and returns MOCK-NNN ids.
func (m *MockTracker) Create(_ context.Context, opts domain.CreateIssueOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.nextID++
	m.Created = append(m.Created, opts)
	return fmt.Sprintf("MOCK-%03d", m.nextID), nil
}

// UpdateStatus records the new status.
func (m *MockTracker) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated[id] = status
	return nil
}

// Close records the close reason.
func (m *MockTracker) Close(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CloseErr != nil {
		return m.CloseErr
	}
	m.Closed[id] = reason
	return nil
}

// AddDependency records the edge.
func (m *MockTracker) AddDependency(_ context.Context, id, dependsOn string, depType domain.DependencyType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DepErr != nil {
		return m.DepErr
	}
	m.Deps = append(m.Deps, domain.Dependency{IssueID: id, DependsOnID: dependsOn, Type: depType})
	return nil
}

// Ready returns ReadyList.
func (m *MockTracker) Ready(context.Context, domain.ReadyFilter) ([]domain.Issue, error) {
	if m.ReadyErr != nil {
		return nil, m.ReadyErr
	}
	return m.ReadyList, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
	SourceList   []domain.ConfigSource
}

// NewMockConfigLoader creates a MockConfigLoader returning default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns Config or LoadErr.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns GlobalConfig or GlobalErr.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	return m.GlobalConfig, nil
}

// Sources returns SourceList.
func (m *MockConfigLoader) Sources() []domain.ConfigSource {
	return m.SourceList
}

var (
	_ domain.ConfigLoader    = (*MockConfigLoader)(nil)
	_ domain.CommandExecutor = (*MockExecutor)(nil)
	_ domain.ProjectLocator  = (*MockLocator)(nil)
	_ domain.Logger          = (*MockLogger)(nil)
	_ domain.IssueTracker    = (*MockTracker)(nil)
	_ domain.Clock           = (*MockClock)(nil)
)
