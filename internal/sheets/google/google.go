package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"kosku/internal/core"

	ports "kosku/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client exports the monthly summary to a Google Sheets spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	summarySheet  string
}

// Ensure interface conformance
var _ ports.SummaryWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SUMMARY_SHEET_NAME (default "Summary")
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	summarySheet := strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"))
	if summarySheet == "" {
		summarySheet = "Summary"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		summarySheet:  summarySheet,
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

var summaryHeader = []any{
	"Month",
	"Rent Invoiced",
	"Rent Collected",
	"Penalties Incurred",
	"Penalties Collected",
	"Expenses",
	"Net Realized",
	"Net Gross",
}

// summaryValues converts summary rows into the sheet's cell layout, header
// included. Amounts are written as plain rupiah integers.
func summaryValues(rows []core.MonthlySummaryRow) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, summaryHeader)
	for _, r := range rows {
		values = append(values, []any{
			r.Month,
			r.RentInvoiced.Rupiah,
			r.RentCollected.Rupiah,
			r.PenaltiesIncurred.Rupiah,
			r.PenaltiesCollected.Rupiah,
			r.ExpensesTotal.Rupiah,
			r.NetRealized.Rupiah,
			r.NetGross.Rupiah,
		})
	}
	return values
}

// WriteSummary replaces the summary sheet's contents with the given rows.
func (c *Client) WriteSummary(ctx context.Context, rows []core.MonthlySummaryRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	// Clear the old contents first so shrinking summaries leave no stale rows
	clearRange := fmt.Sprintf("%s!A:H", c.summarySheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := summaryValues(rows)
	writeRange := fmt.Sprintf("%s!A1:H%d", c.summarySheet, len(values))
	vr := &gsheet.ValueRange{Values: values}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", writeRange, err)
	}

	slog.InfoContext(ctx, "Wrote monthly summary to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.summarySheet,
		"rows", len(rows))
	return nil
}
