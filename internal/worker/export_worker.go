// Package worker turns expense lifecycle events into Google Sheets
// rows. It runs in the spendlog-worker binary, separate from the web
// server.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/storage"
)

// Appender is the export target for created expenses.
type Appender interface {
	AppendExpense(ctx context.Context, e *core.Expense) error
}

// ExportWorker handles expense events: on a created event it loads the
// full row from storage and appends it to the export target.
type ExportWorker struct {
	repo     *storage.Repository
	appender Appender
}

func NewExportWorker(repo *storage.Repository, appender Appender) *ExportWorker {
	return &ExportWorker{repo: repo, appender: appender}
}

// HandleExpenseEvent processes one event. Returning nil acks the
// delivery; returning an error requeues it. Events for rows that were
// deleted before the worker caught up are acked with a warning, not
// requeued forever.
func (w *ExportWorker) HandleExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error {
	if event.Action != events.ActionCreated {
		slog.InfoContext(ctx, "Skipping non-export event",
			"id", event.ID,
			"action", event.Action)
		return nil
	}

	expense, err := w.repo.GetExpense(ctx, event.ID)
	if errors.Is(err, storage.ErrExpenseNotFound) {
		slog.WarnContext(ctx, "Expense gone before export, skipping", "id", event.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load expense %d: %w", event.ID, err)
	}

	if err := w.appender.AppendExpense(ctx, expense); err != nil {
		return fmt.Errorf("export expense %d: %w", event.ID, err)
	}

	slog.InfoContext(ctx, "Expense exported",
		"id", expense.ID,
		"user_id", expense.UserID,
		"category", expense.Category)

	return nil
}
