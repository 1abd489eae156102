package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"spendlog/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetAppender appends expense rows to a Google Sheet. It is the
// worker-side export target; the columns mirror the CSV export order.
type SheetAppender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetAppenderFromEnv creates an appender using environment
// variables. Required: SHEETS_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. The sheet name defaults to
// "Expenses" (SHEETS_SHEET_NAME).
func NewSheetAppenderFromEnv(ctx context.Context) (*SheetAppender, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("SHEETS_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing SHEETS_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("SHEETS_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetAppender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendExpense appends one expense row to the configured sheet.
func (a *SheetAppender) AppendExpense(ctx context.Context, e *core.Expense) error {
	if a.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", a.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{{
		e.ID, e.Date, e.Category, e.Amount, e.Description, e.UserID,
	}}}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", a.sheetName, err)
	}

	slog.InfoContext(ctx, "Expense appended to sheet",
		"id", e.ID,
		"sheet", a.sheetName)

	return nil
}
