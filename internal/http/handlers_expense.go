package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"spendlog/internal/classifier"
	"spendlog/internal/core"
	"spendlog/internal/export"
)

type indexPage struct {
	Username string
	Expenses []core.Expense
	Summary  core.Summary
	Warning  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := currentUser(r.Context())
	expenses, err := s.repo.ListExpenses(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense listing failed", "error", err, "user_id", user.ID)
		http.Error(w, "could not load expenses", http.StatusInternalServerError)
		return
	}

	page := indexPage{Username: user.Username, Expenses: expenses}
	page.Summary, page.Warning = s.summarize(r, user.ID, expenses)
	s.render(w, r, "index.html", page)
}

// summarize returns the user's spending summary, serving from cache
// when fresh. Rows with unreadable dates degrade the monthly breakdown
// but never fail the page.
func (s *Server) summarize(r *http.Request, userID int64, expenses []core.Expense) (core.Summary, string) {
	if summary, ok := s.summaryCache.Get(userID); ok {
		return summary, ""
	}

	summary, err := core.Summarize(expenses)
	warning := ""
	if err != nil {
		slog.WarnContext(r.Context(), "Summary has unreadable dates", "error", err, "user_id", userID)
		warning = "Some expenses have unreadable dates and are excluded from the monthly breakdown."
	} else {
		s.summaryCache.Set(userID, summary)
	}
	return summary, warning
}

type addPage struct {
	Error      string
	Date       string
	Categories []string
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "add.html", addPage{Date: core.Today(), Categories: classifier.Labels})
	case http.MethodPost:
		s.handleAddPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	user := currentUser(r.Context())

	date := sanitizeInput(r.Form.Get("date"))
	if date == "" {
		date = core.Today()
	}

	amountStr := sanitizeInput(r.Form.Get("amount"))
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		// Malformed amounts are recorded as zero rather than losing
		// the entry.
		slog.WarnContext(r.Context(), "Unparseable amount, defaulting to zero",
			"input", amountStr,
			"user_id", user.ID)
		amount = 0.0
	}

	expense := core.Expense{
		Date:        date,
		Category:    sanitizeInput(r.Form.Get("category")),
		Amount:      amount,
		Description: sanitizeInput(r.Form.Get("description")),
		UserID:      user.ID,
	}

	if _, err := s.expenses.CreateExpense(r.Context(), expense); err != nil {
		slog.ErrorContext(r.Context(), "Expense creation failed", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "add.html", addPage{
			Error:      "Could not save the expense: " + userFacingError(err),
			Date:       date,
			Categories: classifier.Labels,
		})
		return
	}

	s.summaryCache.Invalidate(user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "the date must look like 2024-01-31."
	case errors.Is(err, core.ErrEmptyCategory):
		return "a category is required."
	default:
		return "please check the entered values."
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	user := currentUser(r.Context())
	if err := s.expenses.DeleteExpense(r.Context(), id, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Expense deletion failed", "error", err, "id", id, "user_id", user.ID)
		http.Error(w, "could not delete expense", http.StatusInternalServerError)
		return
	}

	s.summaryCache.Invalidate(user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := currentUser(r.Context())
	expenses, err := s.repo.ListExpenses(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export listing failed", "error", err, "user_id", user.ID)
		http.Error(w, "could not export expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "expenses.csv"))
	if err := export.WriteCSV(w, expenses); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err, "user_id", user.ID)
	}
}
