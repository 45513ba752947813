package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/sheets"
)

// ExportProcessorConfig holds configuration for the export processor
type ExportProcessorConfig struct {
	// Interval between full exports (default: 15m)
	Interval time.Duration

	// MaxRetries is the number of attempts per export before giving up (default: 3)
	MaxRetries int

	// RetryDelay is the base delay between attempts, doubled each time (default: 2s)
	RetryDelay time.Duration
}

// DefaultExportProcessorConfig returns sensible defaults
func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		Interval:   15 * time.Minute,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// ExportProcessor pushes report views to a spreadsheet. It runs a periodic full
// export and serves on-demand exports of single months.
type ExportProcessor struct {
	reports  *ReportService
	exporter sheets.Exporter
	config   ExportProcessorConfig
	logger   *applog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// serialises exports so the periodic run and event-driven runs never interleave writes
	exportMu sync.Mutex
}

func NewExportProcessor(reports *ReportService, exporter sheets.Exporter, config ExportProcessorConfig, logger *applog.Logger) *ExportProcessor {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExportProcessor{
		reports:  reports,
		exporter: exporter,
		config:   config,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// Start begins the periodic export loop; the first export runs after one
// interval. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Export processor started", "interval", p.config.Interval.String())
	return nil
}

// Stop signals the loop and waits for it or for ctx.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Export processor stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *ExportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ExportProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *ExportProcessor) runOnce(ctx context.Context) {
	if err := p.ExportAll(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Periodic export failed", applog.FieldError, err)
	}
}

// ExportAll exports the monthly summaries and the current month's breakdown.
func (p *ExportProcessor) ExportAll(ctx context.Context) error {
	return p.ExportMonth(ctx, p.reports.CurrentMonth())
}

// ExportMonth exports the monthly summaries and the breakdown of month, retrying
// with exponential delay.
func (p *ExportProcessor) ExportMonth(ctx context.Context, month core.MonthKey) error {
	p.exportMu.Lock()
	defer p.exportMu.Unlock()

	attempts := p.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := p.config.RetryDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = p.exportMonth(ctx, month); err == nil {
			return nil
		}
		if core.IsValidation(err) || attempt == attempts {
			break
		}
		p.logger.WarnContext(ctx, "Export attempt failed",
			applog.FieldMonth, month.String(),
			"attempt", attempt,
			applog.FieldError, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("export %s after %d attempts: %w", month, attempts, err)
}

func (p *ExportProcessor) exportMonth(ctx context.Context, month core.MonthKey) error {
	monthly, err := p.reports.MonthlyTotals(ctx)
	if err != nil {
		return err
	}
	breakdown, err := p.reports.CategoryBreakdown(ctx, &month)
	if err != nil {
		return err
	}

	if err := p.exporter.ExportMonthlySummaries(ctx, monthly.Months); err != nil {
		return fmt.Errorf("export monthly summaries: %w", err)
	}
	if err := p.exporter.ExportBreakdown(ctx, breakdown); err != nil {
		return fmt.Errorf("export breakdown: %w", err)
	}

	p.logger.InfoContext(ctx, "Exported reports",
		applog.FieldMonth, month.String(),
		"months", len(monthly.Months),
		"rows", len(breakdown.Rows))
	return nil
}
