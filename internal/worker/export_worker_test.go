package worker

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppender struct {
	appended []core.Expense
	err      error
}

func (a *fakeAppender) AppendExpense(_ context.Context, e *core.Expense) error {
	if a.err != nil {
		return a.err
	}
	a.appended = append(a.appended, *e)
	return nil
}

func newTestWorker(t *testing.T) (*ExportWorker, *fakeAppender, *storage.Repository, int64) {
	t.Helper()
	repo, err := storage.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	user, err := repo.CreateUser(context.Background(), "tester", "tester@example.com", "hash")
	require.NoError(t, err)

	appender := &fakeAppender{}
	return NewExportWorker(repo, appender), appender, repo, user.ID
}

func TestHandleCreatedEventExportsRow(t *testing.T) {
	w, appender, repo, userID := newTestWorker(t)
	ctx := context.Background()

	id, err := repo.CreateExpense(ctx, core.Expense{
		Date: "2024-02-01", Category: "Travel", Amount: 100, Description: "train", UserID: userID,
	})
	require.NoError(t, err)

	err = w.HandleExpenseEvent(ctx, events.NewExpenseEvent(id, userID, events.ActionCreated))
	require.NoError(t, err)

	require.Len(t, appender.appended, 1)
	got := appender.appended[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Travel", got.Category)
	assert.Equal(t, 100.0, got.Amount)
}

func TestHandleDeletedEventIsAcked(t *testing.T) {
	w, appender, _, userID := newTestWorker(t)

	err := w.HandleExpenseEvent(context.Background(),
		events.NewExpenseEvent(42, userID, events.ActionDeleted))
	require.NoError(t, err)
	assert.Empty(t, appender.appended)
}

func TestHandleMissingExpenseIsAcked(t *testing.T) {
	w, appender, _, userID := newTestWorker(t)

	err := w.HandleExpenseEvent(context.Background(),
		events.NewExpenseEvent(999, userID, events.ActionCreated))
	require.NoError(t, err, "missing rows must not requeue forever")
	assert.Empty(t, appender.appended)
}

func TestHandleAppendFailureRequeues(t *testing.T) {
	w, appender, repo, userID := newTestWorker(t)
	ctx := context.Background()
	appender.err = errors.New("sheets unavailable")

	id, err := repo.CreateExpense(ctx, core.Expense{
		Date: "2024-02-01", Category: "Travel", Amount: 100, UserID: userID,
	})
	require.NoError(t, err)

	err = w.HandleExpenseEvent(ctx, events.NewExpenseEvent(id, userID, events.ActionCreated))
	assert.Error(t, err)
}
