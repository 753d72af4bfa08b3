package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/skillbeads/internal/domain"
)

// AddDependencyInput contains the parameters for declaring a dependency.
type AddDependencyInput struct {
	ID        string // Issue that waits
	DependsOn string // Issue that must be resolved first
	Type      string // Dependency type (optional, empty = blocks)
}

// AddDependencyOutput contains the declared edge.
type AddDependencyOutput struct {
	Backend    string
	Dependency domain.Dependency
}

// AddDependency is the use case for declaring a dependency between issues.
type AddDependency struct {
	trackers *TrackerSelector
	logger   domain.Logger
}

// NewAddDependency creates a new AddDependency use case.
func NewAddDependency(trackers *TrackerSelector, logger domain.Logger) *AddDependency {
	return &AddDependency{
		trackers: trackers,
		logger:   logger,
	}
}

// Execute records that ID depends on DependsOn.
func (uc *AddDependency) Execute(ctx context.Context, in AddDependencyInput) (*AddDependencyOutput, error) {
	id := strings.TrimSpace(in.ID)
	dependsOn := strings.TrimSpace(in.DependsOn)
	if id == "" || dependsOn == "" {
		return nil, domain.ErrEmptyIssueID
	}
	if id == dependsOn {
		return nil, domain.ErrSelfDependency
	}
	depType, err := domain.ParseDependencyType(in.Type)
	if err != nil {
		return nil, err
	}

	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}
	if err := tracker.AddDependency(ctx, id, dependsOn, depType); err != nil {
		return nil, fmt.Errorf("add dependency %s -> %s: %w", id, dependsOn, explainMissing(tracker, err))
	}

	uc.logger.Info("usecase", fmt.Sprintf("dependency added: %s %s %s", dependsOn, depType, id))

	return &AddDependencyOutput{
		Backend:    tracker.Name(),
		Dependency: domain.Dependency{IssueID: id, DependsOnID: dependsOn, Type: depType},
	}, nil
}
