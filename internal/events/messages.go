package events

import (
	"encoding/json"
	"time"
)

// Expense lifecycle actions carried on the event stream.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// ExpenseEvent is a compact expense lifecycle message. It carries only
// identifiers; consumers fetch the full row from storage so the queue
// never holds stale expense data.
type ExpenseEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event stamped with the current time.
func NewExpenseEvent(id, userID int64, action string) *ExpenseEvent {
	return &ExpenseEvent{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON parses an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
