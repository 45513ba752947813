package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendwise/internal/report"
	ports "spendwise/internal/sheets"
)

const (
	DefaultSummarySheet   = "Monthly Summary"
	DefaultBreakdownSheet = "Category Breakdown"
)

// Client writes report views into a spreadsheet. Each export replaces the
// whole target sheet, so repeated exports are idempotent.
type Client struct {
	svc            *gsheet.Service
	spreadsheetID  string
	summarySheet   string
	breakdownSheet string
}

// Ensure interface conformance
var _ ports.Exporter = (*Client)(nil)

// Config names the spreadsheet and target sheets. Empty sheet names use the defaults.
type Config struct {
	SpreadsheetID  string
	SummarySheet   string
	BreakdownSheet string
}

// New creates a client using service account credentials from the environment.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	summary := strings.TrimSpace(cfg.SummarySheet)
	if summary == "" {
		summary = DefaultSummarySheet
	}
	breakdown := strings.TrimSpace(cfg.BreakdownSheet)
	if breakdown == "" {
		breakdown = DefaultBreakdownSheet
	}
	return &Client{
		svc:            svc,
		spreadsheetID:  strings.TrimSpace(cfg.SpreadsheetID),
		summarySheet:   summary,
		breakdownSheet: breakdown,
	}
}

// newSheetsService prefers service account credentials from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, and falls back to an OAuth user token.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	creds, err := credentialOption(ctx)
	if err != nil {
		return nil, err
	}

	service, err := gsheet.NewService(ctx, creds, goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

var errNoServiceAccount = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")

func credentialOption(ctx context.Context) (goption.ClientOption, error) {
	credentialsJSON, err := serviceAccountCredentials()
	if err == nil {
		slog.DebugContext(ctx, "Creating Google Sheets service",
			"credentials", "service_account",
			"credentials_size", len(credentialsJSON))
		return goption.WithCredentialsJSON(credentialsJSON), nil
	}
	if !errors.Is(err, errNoServiceAccount) {
		return nil, err
	}

	ts, oerr := oauthTokenSource(ctx)
	if errors.Is(oerr, errNoOAuthClient) {
		return nil, err
	}
	if oerr != nil {
		return nil, oerr
	}
	slog.DebugContext(ctx, "Creating Google Sheets service", "credentials", "oauth_token")
	return goption.WithTokenSource(ts), nil
}

func serviceAccountCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errNoServiceAccount
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// ExportMonthlySummaries implements sheets.SummaryExporter
func (c *Client) ExportMonthlySummaries(ctx context.Context, months []report.MonthlySummary) error {
	return c.replaceSheet(ctx, c.summarySheet, summaryRows(months))
}

// ExportBreakdown implements sheets.BreakdownExporter
func (c *Client) ExportBreakdown(ctx context.Context, view report.BreakdownView) error {
	return c.replaceSheet(ctx, c.breakdownSheet, breakdownRows(view))
}

func (c *Client) replaceSheet(ctx context.Context, sheet string, rows [][]interface{}) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := quoteSheet(sheet) + "!A:Z"
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}

	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteSheet(sheet)+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Sheet replaced", "sheet", sheet, "rows", len(rows))
	return nil
}

// quoteSheet wraps a sheet name for A1 notation; embedded quotes are doubled.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
