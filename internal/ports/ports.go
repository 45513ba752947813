package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// Ports for persistence adapters.
type (
	TransactionWriter interface {
		// CreateTransaction stores a validated transaction and returns it with its ID set.
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	// TransactionLister returns every stored transaction, newest date first.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// BudgetReader returns budgets sorted by month then category. A nil month
	// returns all of them.
	BudgetReader interface {
		ListBudgets(ctx context.Context, month *core.MonthKey) ([]core.Budget, error)
	}

	// BudgetWriter creates or replaces the budget for (month, category) atomically.
	BudgetWriter interface {
		UpsertBudget(ctx context.Context, month core.MonthKey, category core.Category, amount decimal.Decimal) (core.Budget, error)
	}

	// Store is everything the ledger and report services need.
	Store interface {
		TransactionWriter
		TransactionLister
		BudgetReader
		BudgetWriter
	}
)
