package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/skillbeads/internal/domain"
)

// ImportPlanInput contains the parameters for importing a plan file.
type ImportPlanInput struct {
	Content []byte // YAML plan content
	DryRun  bool   // If true, validate and report without touching a tracker
}

// PlannedIssue is one plan entry and the id it received.
// Fields are ordered to minimize memory padding.
type PlannedIssue struct {
	Priority  *int
	Key       string
	ID        string // Empty in dry-run mode
	Title     string
	Type      string
	DependsOn []string // Resolved issue ids (keys in dry-run mode)
}

// ImportPlanOutput contains the result of importing a plan.
type ImportPlanOutput struct {
	Backend string // Empty in dry-run mode
	Issues  []PlannedIssue
}

// ImportPlan is the use case for creating a batch of issues with dependencies.
type ImportPlan struct {
	trackers *TrackerSelector
	logger   domain.Logger
}

// NewImportPlan creates a new ImportPlan use case.
func NewImportPlan(trackers *TrackerSelector, logger domain.Logger) *ImportPlan {
	return &ImportPlan{
		trackers: trackers,
		logger:   logger,
	}
}

// Execute parses the plan, creates every issue in file order and then declares
// blocking dependencies. The whole plan is validated before anything is created.
func (uc *ImportPlan) Execute(ctx context.Context, in ImportPlanInput) (*ImportPlanOutput, error) {
	plan, err := domain.ParsePlan(in.Content)
	if err != nil {
		return nil, err
	}

	if in.DryRun {
		return uc.dryRun(plan), nil
	}

	// All issues go to one backend, so dependencies can reference them
	tracker, err := uc.trackers.Select(ctx)
	if err != nil {
		return nil, err
	}

	out := &ImportPlanOutput{
		Backend: tracker.Name(),
		Issues:  make([]PlannedIssue, 0, len(plan.Issues)),
	}
	ids := make(map[string]string, len(plan.Issues))

	for i, entry := range plan.Issues {
		id, err := tracker.Create(ctx, entry.CreateOptions())
		if err != nil {
			return nil, fmt.Errorf("issue %d (%s): create: %w%s", i+1, entry.Key, err, createdSoFar(out.Issues))
		}
		ids[entry.Key] = id
		out.Issues = append(out.Issues, plannedIssue(entry, id))
	}

	for i, entry := range plan.Issues {
		for _, ref := range entry.DependsOn {
			target := ref
			if id, ok := ids[ref]; ok {
				target = id
			}
			if err := tracker.AddDependency(ctx, ids[entry.Key], target, domain.DepBlocks); err != nil {
				return nil, fmt.Errorf("issue %d (%s): depends on %s: %w%s", i+1, entry.Key, ref, err, createdSoFar(out.Issues))
			}
			out.Issues[i].DependsOn = append(out.Issues[i].DependsOn, target)
		}
	}

	uc.logger.Info("usecase", fmt.Sprintf("plan imported: %d issues (%s)", len(out.Issues), tracker.Name()))

	return out, nil
}

func (uc *ImportPlan) dryRun(plan *domain.Plan) *ImportPlanOutput {
	out := &ImportPlanOutput{Issues: make([]PlannedIssue, 0, len(plan.Issues))}
	for _, entry := range plan.Issues {
		planned := plannedIssue(entry, "")
		planned.DependsOn = append([]string(nil), entry.DependsOn...)
		out.Issues = append(out.Issues, planned)
	}
	return out
}

func plannedIssue(entry domain.PlanIssue, id string) PlannedIssue {
	return PlannedIssue{
		Priority: entry.Priority,
		Key:      entry.Key,
		ID:       id,
		Title:    entry.Title,
		Type:     entry.Type,
	}
}

// createdSoFar lists ids already created, so a failed import can be cleaned up by hand.
func createdSoFar(issues []PlannedIssue) string {
	if len(issues) == 0 {
		return ""
	}
	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	return " (already created: " + strings.Join(ids, ", ") + ")"
}
