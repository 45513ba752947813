package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

const source = "sqlite"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps upserts serialised without SQLITE_BUSY retries.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite schema ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements the readiness check.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateTransaction implements ports.TransactionWriter
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, TransactionRow{
		ID:          uuid.NewString(),
		Amount:      tx.Amount.StringFixed(core.AmountPlaces),
		Description: tx.Description,
		Date:        tx.Date.String(),
		Category:    string(tx.Category),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"amount", row.Amount,
		"date", row.Date,
		"category", row.Category)

	return transactionFromRow(row)
}

// ListTransactions implements ports.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// UpsertBudget implements ports.BudgetWriter. The unique (month, category)
// index makes the insert-or-replace a single atomic statement.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, month core.MonthKey, category core.Category, amount decimal.Decimal) (core.Budget, error) {
	row, err := r.queries.UpsertBudget(ctx, BudgetRow{
		ID:       uuid.NewString(),
		Month:    month.String(),
		Category: string(category),
		Amount:   amount.StringFixed(core.AmountPlaces),
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget %s/%s: %w", month, category, err)
	}
	return budgetFromRow(row)
}

// ListBudgets implements ports.BudgetReader
func (r *SQLiteRepository) ListBudgets(ctx context.Context, month *core.MonthKey) ([]core.Budget, error) {
	var (
		rows []BudgetRow
		err  error
	)
	if month != nil {
		rows, err = r.queries.ListBudgetsByMonth(ctx, month.String())
	} else {
		rows, err = r.queries.ListBudgets(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		b, err := budgetFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func transactionFromRow(row TransactionRow) (core.Transaction, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil || amount.IsNegative() {
		return core.Transaction{}, core.Inconsistent(source, fmt.Errorf("transaction %s: bad amount %q", row.ID, row.Amount))
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, core.Inconsistent(source, fmt.Errorf("transaction %s: %w", row.ID, err))
	}
	if row.Description == "" || row.Category == "" {
		return core.Transaction{}, core.Inconsistent(source, fmt.Errorf("transaction %s: missing fields", row.ID))
	}
	return core.Transaction{
		ID:          row.ID,
		Amount:      amount,
		Description: row.Description,
		Date:        date,
		Category:    core.Category(row.Category),
	}, nil
}

func budgetFromRow(row BudgetRow) (core.Budget, error) {
	month, err := core.ParseMonthKey(row.Month)
	if err != nil {
		return core.Budget{}, core.Inconsistent(source, fmt.Errorf("budget %s: %w", row.ID, err))
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil || amount.IsNegative() {
		return core.Budget{}, core.Inconsistent(source, fmt.Errorf("budget %s: bad amount %q", row.ID, row.Amount))
	}
	return core.Budget{
		ID:       row.ID,
		Month:    month,
		Category: core.Category(row.Category),
		Amount:   amount,
	}, nil
}
