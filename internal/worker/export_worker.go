package worker

import (
	"context"
	"fmt"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

// MonthExporter re-exports reports for one month.
type MonthExporter interface {
	ExportMonth(ctx context.Context, month core.MonthKey) error
	ExportAll(ctx context.Context) error
}

// ExportWorker turns ledger events into spreadsheet exports.
type ExportWorker struct {
	exporter MonthExporter
	logger   *applog.Logger
}

func NewExportWorker(exporter MonthExporter, logger *applog.Logger) *ExportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExportWorker{
		exporter: exporter,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleLedgerEvent exports the month touched by ev. A returned error makes
// the consumer requeue the message.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		applog.FieldEventKind, ev.Kind,
		"id", ev.ID,
		applog.FieldMonth, ev.Month.String())

	if err := w.exporter.ExportMonth(ctx, ev.Month); err != nil {
		return fmt.Errorf("export month %s: %w", ev.Month, err)
	}
	return nil
}

// StartupExport runs one full export so the sheet catches up with anything
// missed while the worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	if err := w.exporter.ExportAll(ctx); err != nil {
		return fmt.Errorf("startup export: %w", err)
	}
	w.logger.InfoContext(ctx, "Startup export completed")
	return nil
}
