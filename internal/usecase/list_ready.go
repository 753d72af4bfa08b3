package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/skillbeads/internal/domain"
)

// ListReadyInput contains the filters for listing ready work.
type ListReadyInput struct {
	Priority *int   // Exact priority (optional)
	Assignee string // Assignee (optional)
	Limit    int    // Maximum results (0 = tracker default)
}

// ListReadyOutput contains ready issues.
type ListReadyOutput struct {
	Backend string
	Issues  []domain.Issue // Never nil
}

// ListReady is the use case for listing issues without open blockers.
type ListReady struct {
	trackers *TrackerSelector
}

// NewListReady creates a new ListReady use case.
func NewListReady(trackers *TrackerSelector) *ListReady {
	return &ListReady{trackers: trackers}
}

// Execute lists ready issues.
func (uc *ListReady) Execute(ctx context.Context, in ListReadyInput) (*ListReadyOutput, error) {
	if in.Priority != nil {
		if err := domain.ValidatePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.Limit < 0 {
		in.Limit = 0
	}

	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := tracker.Ready(ctx, domain.ReadyFilter{
		Priority: in.Priority,
		Assignee: in.Assignee,
		Limit:    in.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list ready: %w", err)
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return &ListReadyOutput{Backend: tracker.Name(), Issues: issues}, nil
}
