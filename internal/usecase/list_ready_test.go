package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReady_Execute(t *testing.T) {
	t.Run("returns tracker issues", func(t *testing.T) {
		bd := testutil.NewMockTracker("bd")
		bd.ReadyList = []domain.Issue{{ID: "APP-001", Title: "Add logging", Priority: 1, Status: domain.StatusOpen}}
		uc := NewListReady(newSelector(bd, nil))

		out, err := uc.Execute(context.Background(), ListReadyInput{Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, "bd", out.Backend)
		require.Len(t, out.Issues, 1)
		assert.Equal(t, "APP-001", out.Issues[0].ID)
	})

	t.Run("nil list becomes empty", func(t *testing.T) {
		uc := NewListReady(newSelector(testutil.NewMockTracker("bd"), nil))

		out, err := uc.Execute(context.Background(), ListReadyInput{Limit: -1})
		require.NoError(t, err)
		assert.NotNil(t, out.Issues)
		assert.Empty(t, out.Issues)
	})

	t.Run("invalid priority", func(t *testing.T) {
		uc := NewListReady(newSelector(testutil.NewMockTracker("bd"), nil))

		_, err := uc.Execute(context.Background(), ListReadyInput{Priority: intPtr(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	})

	t.Run("tracker failure", func(t *testing.T) {
		bd := testutil.NewMockTracker("bd")
		bd.ReadyErr = domain.ErrOutputUnparseable
		uc := NewListReady(newSelector(bd, nil))

		_, err := uc.Execute(context.Background(), ListReadyInput{})
		assert.ErrorIs(t, err, domain.ErrOutputUnparseable)
	})
}
