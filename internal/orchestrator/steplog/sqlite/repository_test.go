package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart/orderflow/internal/orchestrator/steplog"
	"github.com/quickcart/orderflow/internal/pkg/ids"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "steps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first := &steplog.Entry{
		ID:          ids.New(),
		ExecutionID: "exec-1",
		Status:      steplog.StatusStarted,
		RecordedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, first))

	second := &steplog.Entry{
		ID:          ids.New(),
		ExecutionID: "exec-1",
		Status:      steplog.StatusStepDone,
		Step:        steplog.StepVerifyUser,
		Detail:      "user-1",
		RecordedAt:  first.RecordedAt.Add(time.Millisecond),
	}
	require.NoError(t, repo.Save(ctx, second))

	latest, err := repo.Latest(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, steplog.StatusStepDone, latest.Status)
	assert.Equal(t, steplog.StepVerifyUser, latest.Step)
	assert.Equal(t, "user-1", latest.Detail)
	assert.WithinDuration(t, second.RecordedAt, latest.RecordedAt, time.Millisecond)
}

func TestLatestUnknownExecution(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Latest(context.Background(), "no-such-execution")
	assert.Error(t, err)
}
