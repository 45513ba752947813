package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/report"
)

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: &bytes.Buffer{}})
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
}

func (f *fakePublisher) PublishLedgerEvent(_ context.Context, ev *amqp.LedgerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeExporter struct {
	mu         sync.Mutex
	failures   int
	summaries  [][]report.MonthlySummary
	breakdowns []report.BreakdownView
}

var errSheetsDown = errors.New("sheets unavailable")

func (f *fakeExporter) ExportMonthlySummaries(_ context.Context, months []report.MonthlySummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errSheetsDown
	}
	f.summaries = append(f.summaries, months)
	return nil
}

func (f *fakeExporter) ExportBreakdown(_ context.Context, view report.BreakdownView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.breakdowns = append(f.breakdowns, view)
	return nil
}

func (f *fakeExporter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.summaries)
}

type failingStore struct {
	err error
}

func (f failingStore) ListTransactions(context.Context) ([]core.Transaction, error) {
	return nil, f.err
}

func (f failingStore) ListBudgets(context.Context, *core.MonthKey) ([]core.Budget, error) {
	return []core.Budget{}, nil
}

var july20 = time.Date(2025, time.July, 20, 10, 0, 0, 0, time.UTC)
