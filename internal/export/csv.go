// Package export writes a user's expenses to external formats: CSV for
// the download endpoint and Google Sheets for the event-driven worker.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"spendlog/internal/core"
)

// CSVHeader is the fixed column order of an export.
var CSVHeader = []string{"id", "date", "category", "amount", "description", "user_id"}

// WriteCSV writes one header row plus one row per expense.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Description,
			strconv.FormatInt(e.UserID, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
