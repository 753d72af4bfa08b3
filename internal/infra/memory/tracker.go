// Package memory provides a non-persistent, in-session issue tracker.
// It stands in for bd when bd is not installed or not initialized, so callers
// can run one code path either way. Nothing outlives the process.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/runoshun/skillbeads/internal/domain"
)

// BackendName identifies this tracker in use case outputs.
const BackendName = domain.BackendSession

// Tracker implements domain.IssueTracker in memory.
// Fields are ordered to minimize memory padding.
type Tracker struct {
	clock  domain.Clock
	issues map[string]*domain.Issue
	deps   map[string][]domain.Dependency // Keyed by IssueID
	prefix string
	nextID int
	mu     sync.Mutex
}

// Ensure Tracker implements domain.IssueTracker interface.
var _ domain.IssueTracker = (*Tracker)(nil)

// New creates an empty tracker that assigns ids as <prefix>-NNN.
func New(prefix string, clock domain.Clock) *Tracker {
	if prefix == "" {
		prefix = domain.DefaultFallbackPrefix
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Tracker{
		clock:  clock,
		issues: make(map[string]*domain.Issue),
		deps:   make(map[string][]domain.Dependency),
		prefix: strings.ToUpper(prefix),
	}
}

// Name returns the backend name.
func (t *Tracker) Name() string {
	return BackendName
}

// Probe always succeeds.
func (t *Tracker) Probe(context.Context) error {
	return nil
}

// withLock runs fn while holding the tracker lock.
func (t *Tracker) withLock(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn()
}

// Create adds an open issue. Deps become blocking dependencies and must exist.
func (t *Tracker) Create(_ context.Context, opts domain.CreateIssueOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	var id string
	err := t.withLock(func() error {
		for _, dep := range opts.Deps {
			if _, ok := t.issues[dep]; !ok {
				return fmt.Errorf("dependency %s: %w", dep, domain.ErrIssueNotFound)
			}
		}

		t.nextID++
		id = fmt.Sprintf("%s-%03d", t.prefix, t.nextID)

		priority := domain.DefaultPriority
		if opts.Priority != nil {
			priority = *opts.Priority
		}
		now := t.clock.Now()
		t.issues[id] = &domain.Issue{
			ID:          id,
			Title:       opts.Title,
			Description: opts.Description,
			Type:        opts.Type,
			Status:      domain.StatusOpen,
			Priority:    priority,
			Labels:      slices.Clone(opts.Labels),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, dep := range opts.Deps {
			t.deps[id] = append(t.deps[id], domain.Dependency{IssueID: id, DependsOnID: dep, Type: domain.DepBlocks})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateStatus sets the status of an existing issue.
func (t *Tracker) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyIssueID
	}
	if !status.IsValid() {
		return fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}
	return t.withLock(func() error {
		issue, ok := t.issues[id]
		if !ok {
			return fmt.Errorf("%s: %w", id, domain.ErrIssueNotFound)
		}
		issue.Status = status
		issue.UpdatedAt = t.clock.Now()
		return nil
	})
}

// Close closes an issue. An empty reason becomes domain.DefaultCloseReason.
func (t *Tracker) Close(_ context.Context, id, reason string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEmptyIssueID
	}
	if reason == "" {
		reason = domain.DefaultCloseReason
	}
	return t.withLock(func() error {
		issue, ok := t.issues[id]
		if !ok {
			return fmt.Errorf("%s: %w", id, domain.ErrIssueNotFound)
		}
		issue.Status = domain.StatusClosed
		issue.CloseReason = reason
		issue.UpdatedAt = t.clock.Now()
		return nil
	})
}

// AddDependency records that id depends on dependsOn. Repeated edges are ignored.
func (t *Tracker) AddDependency(_ context.Context, id, dependsOn string, depType domain.DependencyType) error {
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
	return t.withLock(func() error {
		for _, key := range []string{id, dependsOn} {
			if _, ok := t.issues[key]; !ok {
				return fmt.Errorf("%s: %w", key, domain.ErrIssueNotFound)
			}
		}
		edge := domain.Dependency{IssueID: id, DependsOnID: dependsOn, Type: depType}
		if slices.Contains(t.deps[id], edge) {
			return nil
		}
		t.deps[id] = append(t.deps[id], edge)
		return nil
	})
}

// Ready lists open or in-progress issues whose blocking dependencies are all closed,
// ordered by priority and then id.
func (t *Tracker) Ready(_ context.Context, filter domain.ReadyFilter) ([]domain.Issue, error) {
	ready := []domain.Issue{}
	_ = t.withLock(func() error {
		for id, issue := range t.issues {
			if !issue.Status.IsWorkable() || t.blocked(id) {
				continue
			}
			if filter.Assignee != "" && issue.Assignee != filter.Assignee {
				continue
			}
			if filter.Priority != nil && issue.Priority != *filter.Priority {
				continue
			}
			ready = append(ready, *issue)
		}
		return nil
	})

	slices.SortFunc(ready, func(a, b domain.Issue) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.ID, b.ID))
	})
	if filter.Limit > 0 && len(ready) > filter.Limit {
		ready = ready[:filter.Limit]
	}
	return ready, nil
}

// blocked reports whether id has a blocks edge to an issue that is not closed.
// Caller must hold t.mu.
func (t *Tracker) blocked(id string) bool {
	for _, dep := range t.deps[id] {
		if dep.Type != domain.DepBlocks {
			continue
		}
		if blocker, ok := t.issues[dep.DependsOnID]; ok && !blocker.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// Get returns a copy of the issue with id.
func (t *Tracker) Get(id string) (domain.Issue, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	issue, ok := t.issues[id]
	if !ok {
		return domain.Issue{}, false
	}
	return *issue, true
}
