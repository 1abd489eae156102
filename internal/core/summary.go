package core

import (
	"errors"
	"fmt"
	"sort"
)

// MonthTotal is the spend for one calendar month ("YYYY-MM").
type MonthTotal struct {
	Month string
	Total float64
}

// Summary aggregates one user's expense set.
type Summary struct {
	Total      float64
	ByCategory map[string]float64
	ByMonth    []MonthTotal // ascending by month key
}

// BadDateError reports a single expense whose date could not be reduced
// to a calendar month. Aggregation continues past it.
type BadDateError struct {
	ExpenseID int64
	Date      string
}

func (e *BadDateError) Error() string {
	return fmt.Sprintf("expense %d: bad date %q", e.ExpenseID, e.Date)
}

// Summarize computes the total, per-category and per-month sums of an
// expense set. It is a pure function: no side effects, safe for
// concurrent use.
//
// Rows with malformed dates are reported via a joined error but still
// contribute to Total and ByCategory; only the monthly series skips
// them. An empty set yields a zero Summary and no error.
func Summarize(expenses []Expense) (Summary, error) {
	s := Summary{ByCategory: make(map[string]float64)}
	byMonth := make(map[string]float64)

	var errs []error
	for _, e := range expenses {
		s.Total += e.Amount
		s.ByCategory[e.Category] += e.Amount

		month, err := MonthKey(e.Date)
		if err != nil {
			errs = append(errs, &BadDateError{ExpenseID: e.ID, Date: e.Date})
			continue
		}
		byMonth[month] += e.Amount
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		s.ByMonth = append(s.ByMonth, MonthTotal{Month: m, Total: byMonth[m]})
	}

	return s, errors.Join(errs...)
}
