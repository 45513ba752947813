package google

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "  "})
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")

	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/credentials.json")

	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestDefaultSheetNames(t *testing.T) {
	c := newClient(nil, Config{SpreadsheetID: " id "})
	if c.summarySheet != DefaultSummarySheet || c.breakdownSheet != DefaultBreakdownSheet {
		t.Fatalf("unexpected defaults: %q %q", c.summarySheet, c.breakdownSheet)
	}
	if c.spreadsheetID != "id" {
		t.Fatalf("expected trimmed id, got %q", c.spreadsheetID)
	}

	c = newClient(nil, Config{SpreadsheetID: "id", SummarySheet: "2025 Totals", BreakdownSheet: "Detail"})
	if c.summarySheet != "2025 Totals" || c.breakdownSheet != "Detail" {
		t.Fatalf("unexpected names: %q %q", c.summarySheet, c.breakdownSheet)
	}
}

func TestExportWithoutService(t *testing.T) {
	c := newClient(nil, Config{SpreadsheetID: "id"})
	if err := c.ExportMonthlySummaries(context.Background(), nil); err == nil {
		t.Fatal("expected error when service is not initialized")
	}
}

func TestQuoteSheet(t *testing.T) {
	cases := map[string]string{
		"Monthly Summary": "'Monthly Summary'",
		"Bob's":           "'Bob''s'",
	}
	for in, want := range cases {
		if got := quoteSheet(in); got != want {
			t.Errorf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows([]report.MonthlySummary{
		{Month: core.NewMonthKey(2025, time.June), TotalSpent: decimal.NewFromInt(80), TotalBudget: decimal.NewFromInt(200)},
		{Month: core.NewMonthKey(2025, time.July), TotalSpent: decimal.RequireFromString("180.5"), TotalBudget: decimal.NewFromInt(100)},
	})
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	want := []interface{}{"2025-07", "180.50", "100.00", "overspent"}
	for i, v := range want {
		if rows[2][i] != v {
			t.Fatalf("column %d: expected %v, got %v", i, v, rows[2][i])
		}
	}
}

func TestBreakdownRows(t *testing.T) {
	view := report.BreakdownView{
		Month: core.NewMonthKey(2025, time.July),
		Rows: []report.CategorySpend{
			{Category: "Food", Spent: decimal.NewFromInt(150), Budget: decimal.NewFromInt(100), Delta: decimal.NewFromInt(-50), Status: report.StatusOverspent},
		},
		TotalSpent:  decimal.NewFromInt(150),
		TotalBudget: decimal.NewFromInt(300),
	}
	rows := breakdownRows(view)
	if len(rows) != 3 {
		t.Fatalf("expected header, row and total, got %d", len(rows))
	}
	if rows[1][4] != "-50.00" {
		t.Fatalf("unexpected remaining cell %v", rows[1][4])
	}
	total := rows[2]
	if total[1] != "Total" || total[4] != "150.00" || total[5] != "within_budget" {
		t.Fatalf("unexpected total row %v", total)
	}
}
