package usecase

import (
	"context"

	"github.com/runoshun/skillbeads/internal/domain"
)

// CheckAvailabilityInput contains the parameters for checking bd availability.
type CheckAvailabilityInput struct {
	Dir string // Directory to check
}

// CheckAvailabilityOutput contains the result of the check.
// Fields are ordered to minimize memory padding.
type CheckAvailabilityOutput struct {
	Reason    error  // Why bd is unusable (nil when available)
	BeadsDir  string // Marker directory found, if any
	Available bool
}

// CheckAvailability is the use case for probing bd without running any
// tracker operation.
type CheckAvailability struct {
	tracker domain.IssueTracker
	locator domain.ProjectLocator
}

// NewCheckAvailability creates a new CheckAvailability use case.
func NewCheckAvailability(tracker domain.IssueTracker, locator domain.ProjectLocator) *CheckAvailability {
	return &CheckAvailability{
		tracker: tracker,
		locator: locator,
	}
}

// Execute probes bd. Unavailability is reported in the output, not as an error.
func (uc *CheckAvailability) Execute(ctx context.Context, in CheckAvailabilityInput) (*CheckAvailabilityOutput, error) {
	err := uc.tracker.Probe(ctx)
	return &CheckAvailabilityOutput{
		Available: err == nil,
		Reason:    err,
		BeadsDir:  uc.locator.FindBeadsDir(in.Dir),
	}, nil
}
