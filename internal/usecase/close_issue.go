package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/skillbeads/internal/domain"
)

// CloseIssueInput contains the parameters for closing an issue.
type CloseIssueInput struct {
	ID     string // Issue ID to close
	Reason string // Close reason (optional, empty = "Completed")
}

// CloseIssueOutput contains the result of closing an issue.
type CloseIssueOutput struct {
	ID      string
	Reason  string
	Backend string
}

// CloseIssue is the use case for closing an issue.
type CloseIssue struct {
	trackers *TrackerSelector
	logger   domain.Logger
}

// NewCloseIssue creates a new CloseIssue use case.
func NewCloseIssue(trackers *TrackerSelector, logger domain.Logger) *CloseIssue {
	return &CloseIssue{
		trackers: trackers,
		logger:   logger,
	}
}

// Execute closes an issue.
func (uc *CloseIssue) Execute(ctx context.Context, in CloseIssueInput) (*CloseIssueOutput, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, domain.ErrEmptyIssueID
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = domain.DefaultCloseReason
	}

	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}
	if err := tracker.Close(ctx, in.ID, reason); err != nil {
		return nil, fmt.Errorf("close %s: %w", in.ID, explainMissing(tracker, err))
	}

	uc.logger.Info("usecase", fmt.Sprintf("issue closed: %s (%s)", in.ID, reason))

	return &CloseIssueOutput{ID: in.ID, Reason: reason, Backend: tracker.Name()}, nil
}
