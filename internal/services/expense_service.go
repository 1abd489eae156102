// Package services orchestrates expense operations across storage, the
// category classifier and the event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/storage"
)

// Predictor suggests a category for an expense description.
type Predictor interface {
	Predict(description string) (string, bool)
}

// ExpenseService coordinates a write: classify when no category was
// given, persist, then publish a lifecycle event. Event publishing is
// best-effort — the expense is already durable locally.
type ExpenseService struct {
	repo        *storage.Repository
	predictor   Predictor
	eventClient *events.Client // nil when no broker is configured
}

func NewExpenseService(repo *storage.Repository, predictor Predictor, eventClient *events.Client) *ExpenseService {
	return &ExpenseService{
		repo:        repo,
		predictor:   predictor,
		eventClient: eventClient,
	}
}

// CreateExpense fills in a missing category (classifier suggestion,
// falling back to Uncategorized), saves the expense and publishes a
// created event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if strings.TrimSpace(e.Category) == "" {
		if label, ok := s.predictor.Predict(e.Description); ok {
			e.Category = label
			slog.InfoContext(ctx, "Category suggested by classifier",
				"label", label,
				"description", e.Description)
		} else {
			e.Category = core.Uncategorized
		}
	}

	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}

	id, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(id, e.UserID, events.ActionCreated))
	return id, nil
}

// DeleteExpense removes an owner's expense and publishes a deleted
// event. Deleting a missing or non-owned expense is a silent no-op and
// publishes nothing.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID int64) error {
	// Confirm ownership before deciding whether an event is due.
	existing, err := s.repo.GetExpense(ctx, id)
	if err != nil || existing.UserID != userID {
		return s.repo.DeleteExpense(ctx, id, userID) // no-op either way
	}

	if err := s.repo.DeleteExpense(ctx, id, userID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(id, userID, events.ActionDeleted))
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, event *events.ExpenseEvent) {
	if s.eventClient == nil {
		return
	}
	if err := s.eventClient.PublishExpenseEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", event.ID,
			"action", event.Action,
			"error", err)
	}
}
