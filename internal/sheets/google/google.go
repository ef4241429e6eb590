package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"financas/internal/core"

	ports "financas/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Transactions sheet layout: A=ID, B=Collection, C=Owner, D=Date,
// E=Description, F=Amount (reais). Summary sheet layout: A=Owner,
// B=Year, C=Month, D=Income, E=Expense, F=Balance.

type Config struct {
	SpreadsheetID      string
	TransactionsSheet  string
	SummarySheet       string
	ServiceAccountFile string
	ServiceAccountJSON string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	summarySheet      string
}

// Ensure interface conformance
var (
	_ ports.TransactionWriter  = (*Client)(nil)
	_ ports.TransactionRemover = (*Client)(nil)
	_ ports.SummaryWriter      = (*Client)(nil)
)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	transactions := strings.TrimSpace(cfg.TransactionsSheet)
	if transactions == "" {
		transactions = "Lancamentos"
	}
	summary := strings.TrimSpace(cfg.SummarySheet)
	if summary == "" {
		summary = "Resumo"
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: transactions,
		summarySheet:      summary,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		credentialsJSON, err = os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "credentials_size", len(credentialsJSON))
	return service, nil
}

func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	collection := "receitas"
	if t.Kind == core.KindExpense {
		collection = "despesas"
	}

	// Find the next empty row from the ID column
	rng := fmt.Sprintf("%s!A:A", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.transactionsSheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:F%d", c.transactionsSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		t.ID,
		collection,
		t.OwnerID,
		t.Date.FormatStorage(),
		t.Description,
		t.Amount.Reais(),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

// RemoveTransaction clears the first row whose ID and collection columns
// match. A missing row is not an error; the export is best effort.
func (c *Client) RemoveTransaction(ctx context.Context, collection, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:B", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	for i, row := range resp.Values {
		if len(row) < 2 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) != id {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[1])) != collection {
			continue
		}
		clearRange := fmt.Sprintf("%s!A%d:F%d", c.transactionsSheet, i+1, i+1)
		_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear %s: %w", clearRange, err)
		}
		return nil
	}

	slog.WarnContext(ctx, "Row not found for removal", "collection", collection, "id", id)
	return nil
}

// WriteMonthlySummary upserts the totals row for one owner and month.
func (c *Client) WriteMonthlySummary(ctx context.Context, ownerID string, year, month int, s core.MonthlySummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}

	rng := fmt.Sprintf("%s!A:C", c.summarySheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	key := fmt.Sprintf("%s|%d|%d", ownerID, year, month)
	targetRow := len(resp.Values) + 1
	for i, row := range resp.Values {
		if len(row) < 3 {
			continue
		}
		got := fmt.Sprintf("%s|%s|%s",
			strings.TrimSpace(fmt.Sprint(row[0])),
			strings.TrimSpace(fmt.Sprint(row[1])),
			strings.TrimSpace(fmt.Sprint(row[2])))
		if got == key {
			targetRow = i + 1
			break
		}
	}

	dataRange := fmt.Sprintf("%s!A%d:F%d", c.summarySheet, targetRow, targetRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		ownerID,
		year,
		month,
		s.TotalIncome.Reais(),
		s.TotalExpense.Reais(),
		s.Balance.Reais(),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", dataRange, err)
	}

	return nil
}
