package services

import (
	"context"
	"errors"
	"fmt"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/ports"
)

// EventPublisher announces ledger changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// LedgerService validates user input, persists it and announces the change.
// Publishing is best-effort: a stored record is never rolled back because the
// broker is unavailable.
type LedgerService struct {
	store     ports.Store
	registry  *core.Registry
	publisher EventPublisher
	logger    *applog.Logger
	closers   []func() error
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(store ports.Store, reg *core.Registry, publisher EventPublisher, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &LedgerService{
		store:     store,
		registry:  reg,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

// Registry returns the category set used for validation.
func (s *LedgerService) Registry() *core.Registry {
	return s.registry
}

// RecordTransaction validates in and stores it. Validation failures are
// returned as *core.ValidationError without touching the store.
func (s *LedgerService) RecordTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := core.NewTransaction(s.registry, in)
	if err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction recorded",
		applog.NewFields().
			WithTransaction(saved.ID, string(saved.Category), saved.Amount).
			WithOperation(applog.OpCreate).
			ToSlice()...)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventTransactionCreated, saved.ID, saved.Date.MonthKey()))
	return saved, nil
}

// SetBudget creates or replaces the budget for (month, category).
func (s *LedgerService) SetBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	b, err := core.NewBudget(s.registry, in)
	if err != nil {
		return core.Budget{}, err
	}

	saved, err := s.store.UpsertBudget(ctx, b.Month, b.Category, b.Amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	s.logger.InfoContext(ctx, "Budget set",
		applog.NewFields().
			WithBudget(saved.Month.String(), string(saved.Category), saved.Amount).
			WithOperation(applog.OpUpsert).
			ToSlice()...)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventBudgetUpserted, saved.ID, saved.Month))
	return saved, nil
}

// Transactions lists every transaction, newest first.
func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Budgets lists budgets, optionally for one month only.
func (s *LedgerService) Budgets(ctx context.Context, month *core.MonthKey) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping ledger event", applog.FieldEventKind, ev.Kind)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		fields := applog.NewFields().
			WithError(err).
			WithErrorType(applog.ErrorTypeNetwork).
			WithOperation(applog.OpPublish)
		fields[applog.FieldEventKind] = ev.Kind
		s.logger.WarnContext(ctx, "Failed to publish ledger event", fields.ToSlice()...)
	}
}

// OnClose registers a cleanup run by Close, in reverse order.
func (s *LedgerService) OnClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close releases storage and broker resources.
func (s *LedgerService) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
