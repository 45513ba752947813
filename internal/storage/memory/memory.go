package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const source = "memory seed"

type budgetKey struct {
	month    core.MonthKey
	category core.Category
}

// Store keeps the ledger in process memory. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	budgets map[budgetKey]core.Budget
}

func New() *Store {
	return &Store{budgets: make(map[budgetKey]core.Budget)}
}

type seedTransaction struct {
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Date        string `csv:"date"`
	Category    string `csv:"category"`
}

type seedBudget struct {
	Month    string `csv:"month"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
}

// NewFromFiles seeds a store from transactions.csv and budgets.csv in base.
// Missing files are skipped. Rows that do not validate against reg fail the load.
func NewFromFiles(base string, reg *core.Registry) (*Store, error) {
	s := New()
	ctx := context.Background()

	var txRows []seedTransaction
	if err := readCSV(filepath.Join(base, "transactions.csv"), &txRows); err != nil {
		return nil, err
	}
	for i, r := range txRows {
		amount, err := core.ParseAmount(r.Amount)
		if err != nil {
			return nil, core.Inconsistent(source, fmt.Errorf("transactions.csv row %d: %w", i+1, err))
		}
		tx, err := core.NewTransaction(reg, core.TransactionInput{
			Amount: &amount, Description: r.Description, Date: r.Date, Category: r.Category,
		})
		if err != nil {
			return nil, core.Inconsistent(source, fmt.Errorf("transactions.csv row %d: %w", i+1, err))
		}
		if _, err := s.CreateTransaction(ctx, tx); err != nil {
			return nil, err
		}
	}

	var budgetRows []seedBudget
	if err := readCSV(filepath.Join(base, "budgets.csv"), &budgetRows); err != nil {
		return nil, err
	}
	for i, r := range budgetRows {
		amount, err := core.ParseAmount(r.Amount)
		if err != nil {
			return nil, core.Inconsistent(source, fmt.Errorf("budgets.csv row %d: %w", i+1, err))
		}
		b, err := core.NewBudget(reg, core.BudgetInput{Month: r.Month, Category: r.Category, Amount: &amount})
		if err != nil {
			return nil, core.Inconsistent(source, fmt.Errorf("budgets.csv row %d: %w", i+1, err))
		}
		if _, err := s.UpsertBudget(ctx, b.Month, b.Category, b.Amount); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func readCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return core.Inconsistent(source, fmt.Errorf("parse %s: %w", filepath.Base(path), err))
	}
	return nil
}

// CreateTransaction implements ports.TransactionWriter
func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	s.txs = append(s.txs, tx)
	return tx, nil
}

// ListTransactions returns a copy, newest date first; same-day entries keep
// reverse insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	out := make([]core.Transaction, len(s.txs))
	for i, tx := range s.txs {
		out[len(s.txs)-1-i] = tx
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// UpsertBudget implements ports.BudgetWriter. The existing ID is kept on replace.
func (s *Store) UpsertBudget(_ context.Context, month core.MonthKey, category core.Category, amount decimal.Decimal) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := budgetKey{month: month, category: category}
	b, ok := s.budgets[key]
	if !ok {
		b = core.Budget{ID: uuid.NewString(), Month: month, Category: category}
	}
	b.Amount = amount
	s.budgets[key] = b
	return b, nil
}

// ListBudgets implements ports.BudgetReader
func (s *Store) ListBudgets(_ context.Context, month *core.MonthKey) ([]core.Budget, error) {
	s.mu.Lock()
	out := make([]core.Budget, 0, len(s.budgets))
	for k, b := range s.budgets {
		if month != nil && k.month != *month {
			continue
		}
		out = append(out, b)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Month.Compare(out[j].Month); c != 0 {
			return c < 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
