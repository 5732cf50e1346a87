// Package google exports transactions to a Google Sheets ledger.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pitaka/internal/core"
	ports "pitaka/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
}

// Ensure interface conformance
var _ ports.LedgerWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Transactions").
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledgerSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if ledgerSheet == "" {
		ledgerSheet = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
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

// Ping verifies the spreadsheet is reachable and the ledger sheet exists.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet %s: %w", c.spreadsheetID, err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.ledgerSheet {
			return nil
		}
	}
	return fmt.Errorf("spreadsheet %s has no sheet named %q", c.spreadsheetID, c.ledgerSheet)
}

// Append writes one transaction to the next empty ledger row and returns the
// row reference. Columns: date, description, amount, category, user, id.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row by reading the sheet dimensions first.
	rng := fmt.Sprintf("%s!A:A", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.ledgerSheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:F%d", c.ledgerSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.Date.Format(time.DateOnly),
		tx.Description,
		tx.Amount.Units(),
		tx.Category,
		tx.UserID,
		tx.ID,
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	slog.InfoContext(ctx, "Transaction appended to ledger",
		"id", tx.ID,
		"row", nextRow,
		"sheet", c.ledgerSheet)

	return dataRange, nil
}
