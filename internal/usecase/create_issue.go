package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/skillbeads/internal/domain"
)

// CreateIssueInput contains the parameters for creating an issue.
// Fields are ordered to minimize memory padding.
type CreateIssueInput struct {
	Priority    *int     // Priority 0-4 (optional, nil = tracker default)
	Title       string   // Issue title (required)
	Type        string   // Issue type (optional, empty = task)
	Description string   // Issue description (optional)
	Labels      []string // Labels (optional)
	Deps        []string // IDs of issues the new one depends on (optional)
}

// CreateIssueOutput contains the result of creating an issue.
type CreateIssueOutput struct {
	ID      string // The ID of the created issue
	Backend string // Tracker that served the call
}

// CreateIssue is the use case for creating an issue.
type CreateIssue struct {
	trackers *TrackerSelector
	logger   domain.Logger
}

// NewCreateIssue creates a new CreateIssue use case.
func NewCreateIssue(trackers *TrackerSelector, logger domain.Logger) *CreateIssue {
	return &CreateIssue{
		trackers: trackers,
		logger:   logger,
	}
}

// Execute validates the input and creates the issue.
func (uc *CreateIssue) Execute(ctx context.Context, in CreateIssueInput) (*CreateIssueOutput, error) {
	issueType, err := domain.ParseIssueType(in.Type)
	if err != nil {
		return nil, err
	}
	opts := domain.CreateIssueOptions{
		Title:       in.Title,
		Description: in.Description,
		Type:        issueType,
		Priority:    in.Priority,
		Labels:      in.Labels,
		Deps:        in.Deps,
	}
	// Reject bad input before probing bd
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}

	id, err := tracker.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	uc.logger.Info("usecase", fmt.Sprintf("issue created: %s %q (%s)", id, opts.Title, tracker.Name()))

	return &CreateIssueOutput{ID: id, Backend: tracker.Name()}, nil
}
