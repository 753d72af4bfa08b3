// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/skillbeads/internal/domain"
)

// TrackerSelector picks the backend that serves a call: bd when it answers,
// otherwise the in-session tracker if one is configured.
type TrackerSelector struct {
	primary  domain.IssueTracker
	fallback domain.IssueTracker // nil = fallback disabled
	logger   domain.Logger
}

// NewTrackerSelector creates a TrackerSelector. fallback may be nil.
func NewTrackerSelector(primary, fallback domain.IssueTracker, logger domain.Logger) *TrackerSelector {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &TrackerSelector{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Select probes the primary tracker and returns the one to use.
// When the primary is not usable and no fallback is configured, the returned
// error matches both ErrFallbackDisabled and the probe error.
func (s *TrackerSelector) Select(ctx context.Context) (domain.IssueTracker, error) {
	err := s.primary.Probe(ctx)
	if err == nil {
		return s.primary, nil
	}
	if s.fallback == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFallbackDisabled, err)
	}
	s.logger.Info("selector", fmt.Sprintf("%s unusable (%v), using %s", s.primary.Name(), err, s.fallback.Name()))
	return s.fallback, nil
}

// explainMissing adds context when the in-session tracker does not know an id:
// its issues live only as long as the command that created them.
func explainMissing(tracker domain.IssueTracker, err error) error {
	if tracker.Name() != domain.BackendSession || !errors.Is(err, domain.ErrIssueNotFound) {
		return err
	}
	return fmt.Errorf("%w (bd is unavailable; in-session issues do not outlive the command that created them)", err)
}
