package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlan = `
issues:
  - key: schema
    title: Design schema
    priority: 1
    labels: [db]
  - key: api
    title: Build API
    type: feature
    depends_on: [schema, APP-900]
  - key: docs
    title: Write docs
    depends_on: [api]
`

func TestImportPlan_Execute(t *testing.T) {
	bd := testutil.NewMockTracker("bd")
	uc := NewImportPlan(newSelector(bd, nil), domain.NopLogger{})

	out, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(testPlan)})
	require.NoError(t, err)

	assert.Equal(t, "bd", out.Backend)
	require.Len(t, out.Issues, 3)
	assert.Equal(t, "MOCK-001", out.Issues[0].ID)
	assert.Equal(t, "MOCK-002", out.Issues[1].ID)
	assert.Equal(t, []string{"MOCK-001", "APP-900"}, out.Issues[1].DependsOn)
	assert.Equal(t, []string{"MOCK-002"}, out.Issues[2].DependsOn)

	require.Len(t, bd.Created, 3)
	assert.Equal(t, "Design schema", bd.Created[0].Title)
	assert.Equal(t, []string{"db"}, bd.Created[0].Labels)
	assert.Equal(t, domain.IssueTypeFeature, bd.Created[1].Type)
	assert.Equal(t, domain.IssueTypeTask, bd.Created[2].Type)

	assert.Equal(t, []domain.Dependency{
		{IssueID: "MOCK-002", DependsOnID: "MOCK-001", Type: domain.DepBlocks},
		{IssueID: "MOCK-002", DependsOnID: "APP-900", Type: domain.DepBlocks},
		{IssueID: "MOCK-003", DependsOnID: "MOCK-002", Type: domain.DepBlocks},
	}, bd.Deps)
}

func TestImportPlan_Execute_DryRun(t *testing.T) {
	bd := testutil.NewMockTracker("bd")
	bd.ProbeErr = domain.ErrToolMissing
	uc := NewImportPlan(newSelector(bd, nil), domain.NopLogger{})

	out, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(testPlan), DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, out.Backend)
	require.Len(t, out.Issues, 3)
	assert.Empty(t, out.Issues[0].ID)
	assert.Equal(t, []string{"schema", "APP-900"}, out.Issues[1].DependsOn)
	assert.Empty(t, bd.Created)
}

func TestImportPlan_Execute_InvalidPlanCreatesNothing(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		content string
	}{
		{domain.ErrUnknownPlanKey, "unknown key", "issues:\n  - {key: a, title: A}\n  - {key: b, title: B, depends_on: [c]}\n"},
		{domain.ErrDuplicatePlanKey, "duplicate key", "issues:\n  - {key: a, title: A}\n  - {key: a, title: B}\n"},
		{domain.ErrEmptyPlan, "empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := testutil.NewMockTracker("bd")
			uc := NewImportPlan(newSelector(bd, nil), domain.NopLogger{})

			_, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(tt.content)})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, bd.Created)
		})
	}
}

func TestImportPlan_Execute_CreateFailureReportsProgress(t *testing.T) {
	bd := testutil.NewMockTracker("bd")
	bd.DepErr = domain.ErrIssueNotFound
	uc := NewImportPlan(newSelector(bd, nil), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(testPlan)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
	assert.Contains(t, err.Error(), "already created: MOCK-001, MOCK-002, MOCK-003")
}

func TestImportPlan_Execute_Fallback(t *testing.T) {
	bd := testutil.NewMockTracker("bd")
	bd.ProbeErr = domain.ErrToolUninitialized
	session := testutil.NewMockTracker("session")
	uc := NewImportPlan(newSelector(bd, session), domain.NopLogger{})

	out, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(testPlan)})
	require.NoError(t, err)
	assert.Equal(t, "session", out.Backend)
	assert.Len(t, session.Created, 3)
	assert.Empty(t, bd.Created)
}
