package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/core"
	"spendwise/internal/ports"
	"spendwise/internal/report"
)

// ReportService fetches a snapshot from storage and runs the pure report
// engine over it. "Now" comes from the injected clock, read in loc.
type ReportService struct {
	txs     ports.TransactionLister
	budgets ports.BudgetReader
	engine  *report.Engine
	clock   core.Clock
	loc     *time.Location
}

func NewReportService(txs ports.TransactionLister, budgets ports.BudgetReader, reg *core.Registry, clock core.Clock, loc *time.Location) *ReportService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		txs:     txs,
		budgets: budgets,
		engine:  report.NewEngine(reg),
		clock:   clock,
		loc:     loc,
	}
}

// Now returns the reference instant for current-month windows.
func (s *ReportService) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// CurrentMonth is the calendar month of Now.
func (s *ReportService) CurrentMonth() core.MonthKey {
	return core.MonthOf(s.Now())
}

// Snapshot fetches transactions and budgets concurrently. month narrows the
// budget query; nil fetches all budgets.
func (s *ReportService) Snapshot(ctx context.Context, month *core.MonthKey) ([]core.Transaction, []core.Budget, error) {
	var (
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx, month)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txs, budgets, nil
}

// MonthlyTotals returns every month with spend or budget plus the current-month banner.
func (s *ReportService) MonthlyTotals(ctx context.Context) (report.MonthlyView, error) {
	txs, budgets, err := s.Snapshot(ctx, nil)
	if err != nil {
		return report.MonthlyView{}, err
	}
	return s.engine.MonthlyTotals(txs, budgets, s.Now()), nil
}

// MonthlyTotalsBetween is MonthlyTotals limited to the months from..to inclusive.
func (s *ReportService) MonthlyTotalsBetween(ctx context.Context, from, to core.MonthKey) (report.MonthlyView, error) {
	txs, budgets, err := s.Snapshot(ctx, nil)
	if err != nil {
		return report.MonthlyView{}, err
	}
	return s.engine.MonthlyTotalsBetween(txs, budgets, s.Now(), from, to), nil
}

// CategoryBreakdown reconciles one month. A nil month means the current month.
func (s *ReportService) CategoryBreakdown(ctx context.Context, month *core.MonthKey) (report.BreakdownView, error) {
	if month == nil {
		now := s.Now()
		current := core.MonthOf(now)
		txs, budgets, err := s.Snapshot(ctx, &current)
		if err != nil {
			return report.BreakdownView{}, err
		}
		return s.engine.CurrentBreakdown(txs, budgets, now), nil
	}
	txs, budgets, err := s.Snapshot(ctx, month)
	if err != nil {
		return report.BreakdownView{}, err
	}
	return s.engine.CategoryBreakdown(txs, budgets, *month), nil
}

// Summary returns the headline KPIs.
func (s *ReportService) Summary(ctx context.Context) (report.KPIs, error) {
	txs, err := s.txs.ListTransactions(ctx)
	if err != nil {
		return report.KPIs{}, fmt.Errorf("fetch transactions: %w", err)
	}
	return s.engine.SummaryKPIs(txs, s.Now()), nil
}
