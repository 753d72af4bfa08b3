package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IssueType classifies an issue.
type IssueType string

const (
	IssueTypeBug     IssueType = "bug"
	IssueTypeFeature IssueType = "feature"
	IssueTypeTask    IssueType = "task"
	IssueTypeEpic    IssueType = "epic"
	IssueTypeChore   IssueType = "chore"
)

// ParseIssueType normalizes user input into an IssueType.
// Empty input yields IssueTypeTask.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return IssueTypeTask, nil
	}
	switch t {
	case IssueTypeBug, IssueTypeFeature, IssueTypeTask, IssueTypeEpic, IssueTypeChore:
		return t, nil
	case "feat":
		return IssueTypeFeature, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidIssueType)
}

// DependencyType tags a dependency edge.
type DependencyType string

const (
	DepBlocks         DependencyType = "blocks"
	DepRelated        DependencyType = "related"
	DepParentChild    DependencyType = "parent-child"
	DepDiscoveredFrom DependencyType = "discovered-from"
)

// ParseDependencyType normalizes user input. Empty input yields DepBlocks.
func ParseDependencyType(s string) (DependencyType, error) {
	t := DependencyType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case "":
		return DepBlocks, nil
	case DepBlocks, DepRelated, DepParentChild, DepDiscoveredFrom:
		return t, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidDepType)
}

// Priority bounds. Lower is more urgent; P0 is critical.
const (
	MinPriority     = 0
	MaxPriority     = 4
	DefaultPriority = 2
)

// ValidatePriority checks that p is within the bd priority range.
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("%d: %w", p, ErrInvalidPriority)
	}
	return nil
}

// ParsePriority accepts "2" or "P2".
func ParsePriority(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P")
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidPriority)
	}
	return p, ValidatePriority(p)
}

// DefaultCloseReason is used when closing without an explicit reason.
const DefaultCloseReason = "Completed"

// Issue mirrors a bd issue. The tracker owns the authoritative copy.
// Fields are ordered to minimize memory padding.
type Issue struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status,omitempty"`
	Type        IssueType `json:"issue_type,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	CloseReason string    `json:"close_reason,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Priority    int       `json:"priority"`
}

// Dependency is an edge declaring that IssueID waits on DependsOnID.
type Dependency struct {
	IssueID     string         `json:"issue_id"`
	DependsOnID string         `json:"depends_on_id"`
	Type        DependencyType `json:"type"`
}

// CreateIssueOptions configures issue creation.
// Fields are ordered to minimize memory padding.
type CreateIssueOptions struct {
	Priority    *int // nil = tracker default
	Title       string
	Description string
	Type        IssueType
	Labels      []string
	Deps        []string // Issue IDs the new issue depends on (blocks)
}

// Validate checks the options and fills defaults.
func (o *CreateIssueOptions) Validate() error {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return ErrEmptyTitle
	}
	t, err := ParseIssueType(string(o.Type))
	if err != nil {
		return err
	}
	o.Type = t
	if o.Priority != nil {
		if err := ValidatePriority(*o.Priority); err != nil {
			return err
		}
	}
	return nil
}

// ReadyFilter narrows a ready-work query.
type ReadyFilter struct {
	Priority *int
	Assignee string
	Limit    int // 0 = tracker default; bd then returns at most 10 issues
}
