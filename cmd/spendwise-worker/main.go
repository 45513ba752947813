package main

import (
	"context"
	"errors"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
	gsheet "spendwise/internal/sheets/google"
	"spendwise/internal/worker"
)

func main() {
	cfg, logger := cli.MustSetup(applog.ComponentWorker)

	if err := cfg.ValidateExport(); err != nil {
		logger.Error("Export configuration invalid",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Warn("Worker is running on the memory backend; it will only see seed data")
	}

	logger.Info("Starting spendwise-worker")

	app, err := cli.NewApp(context.Background(), cfg, logger, core.SystemClock{})
	if err != nil {
		logger.Error("Failed to initialize application", applog.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	sheetsClient, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:  cfg.GoogleSpreadsheetID,
		SummarySheet:   cfg.GoogleSummarySheet,
		BreakdownSheet: cfg.GoogleBreakdownSheet,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		os.Exit(1)
	}
	defer consumer.Close()

	processor := services.NewExportProcessor(app.Reports, sheetsClient, services.ExportProcessorConfig{
		Interval:   cfg.ExportInterval,
		MaxRetries: cfg.ExportMaxRetries,
		RetryDelay: services.DefaultExportProcessorConfig().RetryDelay,
	}, logger)
	exportWorker := worker.NewExportWorker(processor, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := processor.Stop(ctx); err != nil {
			logger.Warn("Export processor stop failed", applog.FieldError, err)
		}
	})

	if err := exportWorker.StartupExport(ctx); err != nil {
		// The periodic export retries later.
		logger.Error("Startup export failed", applog.FieldError, err)
	}

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start export processor", applog.FieldError, err)
		os.Exit(1)
	}

	go func() {
		err := consumer.ConsumeLedgerEvents(ctx, exportWorker.HandleLedgerEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Ledger event consumption failed", applog.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
