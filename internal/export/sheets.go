// Package export mirrors archived expenses into a Google Sheet so the
// ledger stays inspectable outside the application.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"paisa/internal/core"
)

type SheetsWriter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsWriter creates a Sheets client using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsWriter(ctx context.Context, spreadsheetID, sheetName string) (*SheetsWriter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Expenses"
	}

	credentialsJSON, err := readCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsWriter{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func readCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// AppendExpense appends one archived record as a row:
// date | description | amount (rupees) | category | record id.
func (w *SheetsWriter) AppendExpense(ctx context.Context, rec core.ExpenseRecord) error {
	values := &gsheet.ValueRange{
		Values: [][]interface{}{{
			rec.Date.ISO(),
			rec.Description,
			rec.Amount.Rupees(),
			string(rec.Category),
			rec.ID,
		}},
	}

	_, err := w.svc.Spreadsheets.Values.
		Append(w.spreadsheetID, w.sheetName+"!A:E", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %q: %w", w.sheetName, err)
	}
	return nil
}
