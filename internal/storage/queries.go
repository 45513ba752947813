package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Rows as stored. Amounts, dates and months are kept as canonical text.
type TransactionRow struct {
	ID          string
	Amount      string
	Description string
	Date        string
	Category    string
}

type BudgetRow struct {
	ID       string
	Month    string
	Category string
	Amount   string
}

const createTransaction = `
INSERT INTO transactions (id, amount, description, date, category)
VALUES (?, ?, ?, ?, ?)
RETURNING id, amount, description, date, category`

func (q *Queries) CreateTransaction(ctx context.Context, arg TransactionRow) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, createTransaction, arg.ID, arg.Amount, arg.Description, arg.Date, arg.Category)
	var i TransactionRow
	err := row.Scan(&i.ID, &i.Amount, &i.Description, &i.Date, &i.Category)
	return i, err
}

const listTransactions = `
SELECT id, amount, description, date, category
FROM transactions
ORDER BY date DESC, rowid DESC`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.Description, &i.Date, &i.Category); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertBudget = `
INSERT INTO budgets (id, month, category, amount)
VALUES (?, ?, ?, ?)
ON CONFLICT (month, category) DO UPDATE SET
    amount = excluded.amount,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, month, category, amount`

func (q *Queries) UpsertBudget(ctx context.Context, arg BudgetRow) (BudgetRow, error) {
	row := q.db.QueryRowContext(ctx, upsertBudget, arg.ID, arg.Month, arg.Category, arg.Amount)
	var i BudgetRow
	err := row.Scan(&i.ID, &i.Month, &i.Category, &i.Amount)
	return i, err
}

const listBudgets = `
SELECT id, month, category, amount
FROM budgets
ORDER BY month, category`

const listBudgetsByMonth = `
SELECT id, month, category, amount
FROM budgets
WHERE month = ?
ORDER BY category`

func (q *Queries) ListBudgets(ctx context.Context) ([]BudgetRow, error) {
	return q.queryBudgets(ctx, listBudgets)
}

func (q *Queries) ListBudgetsByMonth(ctx context.Context, month string) ([]BudgetRow, error) {
	return q.queryBudgets(ctx, listBudgetsByMonth, month)
}

func (q *Queries) queryBudgets(ctx context.Context, query string, args ...interface{}) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetRow
	for rows.Next() {
		var i BudgetRow
		if err := rows.Scan(&i.ID, &i.Month, &i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
