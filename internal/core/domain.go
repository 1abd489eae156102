package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format expenses are stored with.
// Dates carry no time of day and no timezone.
const DateLayout = "2006-01-02"

// Uncategorized is the category substituted when a user leaves the
// field empty and the classifier has no suggestion.
const Uncategorized = "Uncategorized"

type (
	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Expense struct {
		ID          int64
		Date        string // YYYY-MM-DD
		Category    string
		Amount      float64
		Description string
		UserID      int64
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyEmail    = errors.New("empty email")
)

// Validate checks the fields an expense needs before it is persisted.
// Amounts are deliberately unconstrained: negative and zero values are
// accepted, matching the storage schema.
func (e Expense) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if u.PasswordHash == "" {
		return errors.New("missing password hash")
	}
	return nil
}

// MonthKey truncates an expense date to its calendar month ("YYYY-MM").
func MonthKey(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format("2006-01"), nil
}

// Today returns the current date in storage format. Used as the default
// when an expense form omits the date.
func Today() string {
	return time.Now().Format(DateLayout)
}
