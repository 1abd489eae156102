// Package storage persists users, expenses and sessions in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrSessionNotFound = errors.New("session not found or expired")
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the SQLite database at
// dbPath and applies migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection also keeps
	// in-memory databases coherent across goroutines.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping checks database liveness, for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser registers a new user. A duplicate email is surfaced as
// ErrEmailTaken with no partial write.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", id, "email", email)
	return r.GetUserByID(ctx, id)
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email))
}

func (r *Repository) scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateExpense inserts an expense and returns its id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (date, category, amount, description, user_id) VALUES (?, ?, ?, ?, ?)",
		e.Date, e.Category, e.Amount, e.Description, e.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"category", e.Category,
		"amount", e.Amount)

	return id, nil
}

// GetExpense retrieves a single expense by id, regardless of owner.
// Used by the export worker; user-facing reads go through ListExpenses.
func (r *Repository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	var e core.Expense
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, date, category, amount, description, user_id FROM expenses WHERE id = ?", id,
	).Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &desc, &e.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	e.Description = desc.String
	return &e, nil
}

// ListExpenses returns all of one user's expenses, newest date first.
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, category, amount, description, user_id FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &desc, &e.UserID); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Description = desc.String
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// DeleteExpense removes an expense, scoped to its owner. Deleting a
// missing or non-owned expense is a silent no-op.
func (r *Repository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	}
	return nil
}

// CreateSession stores a session token for a user.
func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ValidateSession resolves a token to its user, rejecting expired
// sessions.
func (r *Repository) ValidateSession(ctx context.Context, token string) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, time.Now().UTC()).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session user: %w", err)
	}
	return &u, nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanExpiredSessions purges sessions past their expiry.
func (r *Repository) CleanExpiredSessions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC()); err != nil {
		return fmt.Errorf("clean sessions: %w", err)
	}
	return nil
}
