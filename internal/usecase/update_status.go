package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/skillbeads/internal/domain"
)

// UpdateStatusInput contains the parameters for changing an issue status.
type UpdateStatusInput struct {
	ID     string // Issue ID
	Status string // New status (open, in_progress, blocked, closed)
}

// UpdateStatusOutput contains the result of the status change.
type UpdateStatusOutput struct {
	ID      string
	Status  domain.Status
	Backend string
}

// UpdateStatus is the use case for changing an issue status.
type UpdateStatus struct {
	trackers *TrackerSelector
	logger   domain.Logger
}

// NewUpdateStatus creates a new UpdateStatus use case.
func NewUpdateStatus(trackers *TrackerSelector, logger domain.Logger) *UpdateStatus {
	return &UpdateStatus{
		trackers: trackers,
		logger:   logger,
	}
}

// Execute sets the status of an issue.
func (uc *UpdateStatus) Execute(ctx context.Context, in UpdateStatusInput) (*UpdateStatusOutput, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, domain.ErrEmptyIssueID
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", in.Status, err)
	}

	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}
	if err := tracker.UpdateStatus(ctx, in.ID, status); err != nil {
		return nil, fmt.Errorf("update %s: %w", in.ID, explainMissing(tracker, err))
	}

	uc.logger.Info("usecase", fmt.Sprintf("status changed: %s -> %s (%s)", in.ID, status, tracker.Name()))

	return &UpdateStatusOutput{ID: in.ID, Status: status, Backend: tracker.Name()}, nil
}
