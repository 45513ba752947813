package sheets

import (
	"context"

	"spendwise/internal/report"
)

// Ports for spreadsheet export adapters.
type (
	// SummaryExporter replaces the month-by-month summary sheet.
	SummaryExporter interface {
		ExportMonthlySummaries(ctx context.Context, months []report.MonthlySummary) error
	}

	// BreakdownExporter replaces the category breakdown sheet with one month's rows.
	BreakdownExporter interface {
		ExportBreakdown(ctx context.Context, view report.BreakdownView) error
	}

	Exporter interface {
		SummaryExporter
		BreakdownExporter
	}
)
