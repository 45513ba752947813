// Package report turns snapshots of transactions and budgets into spending
// summaries. Everything here is pure: no I/O, no clock reads, no shared state.
package report

import (
	"time"

	"spendwise/internal/core"
)

// Window selects the transactions that belong to a reporting period.
type Window func(core.Date) bool

// SameMonth matches dates in the calendar month of ref, evaluated in ref's location.
func SameMonth(ref time.Time) Window {
	return InMonth(core.MonthOf(ref))
}

// InMonth matches dates inside month.
func InMonth(month core.MonthKey) Window {
	return func(d core.Date) bool {
		return d.MonthKey() == month
	}
}

// Between matches dates from the first day of from through the last day of to.
func Between(from, to core.MonthKey) Window {
	return func(d core.Date) bool {
		k := d.MonthKey()
		return !k.Before(from) && !to.Before(k)
	}
}

// All matches every date.
func All() Window {
	return func(core.Date) bool { return true }
}

// Engine folds transactions into totals. Per-category totals drop
// transactions whose category is not in the registry; per-month totals keep
// them, so a month's total matches the summary KPIs.
type Engine struct {
	registry *core.Registry
}

func NewEngine(reg *core.Registry) *Engine {
	return &Engine{registry: reg}
}

// AggregateByCategory sums the amounts of transactions inside window per category.
// A nil window selects everything.
func (e *Engine) AggregateByCategory(txs []core.Transaction, window Window) *Totals[core.Category] {
	out := NewTotals[core.Category]()
	for _, tx := range txs {
		if !e.registry.Contains(tx.Category) {
			continue
		}
		if window != nil && !window(tx.Date) {
			continue
		}
		out.Add(tx.Category, tx.Amount)
	}
	return out
}

// AggregateByMonth sums amounts per calendar month, whatever the category.
func (e *Engine) AggregateByMonth(txs []core.Transaction) *Totals[core.MonthKey] {
	out := NewTotals[core.MonthKey]()
	for _, tx := range txs {
		out.Add(tx.Date.MonthKey(), tx.Amount)
	}
	return out
}
