package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// Status is the three-way budget classification of a spend total.
type Status string

const (
	StatusNoBudget     Status = "no_budget"
	StatusWithinBudget Status = "within_budget"
	StatusOverspent    Status = "overspent"
)

// Classify returns Overspent iff budget > 0 and spent > budget, NoBudget iff
// budget is zero, WithinBudget otherwise.
func Classify(spent, budget decimal.Decimal) Status {
	switch {
	case !budget.IsPositive():
		return StatusNoBudget
	case spent.GreaterThan(budget):
		return StatusOverspent
	default:
		return StatusWithinBudget
	}
}

// CategorySpend is one row of a category breakdown.
type CategorySpend struct {
	Category core.Category   `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
	Budget   decimal.Decimal `json:"budget"`
	Status   Status          `json:"status"`
	// Delta is Budget minus Spent; negative when overspent.
	Delta decimal.Decimal `json:"delta"`
}

// MonthlySummary aggregates all categories for one month.
type MonthlySummary struct {
	Month       core.MonthKey   `json:"month"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
}

// Status classifies the month as a whole.
func (m MonthlySummary) Status() Status {
	return Classify(m.TotalSpent, m.TotalBudget)
}

// Reconcile produces one row per category with spend, in spend insertion order.
// Categories that only have a budget produce no row.
func Reconcile(spent *Totals[core.Category], budgets *Totals[core.Category]) []CategorySpend {
	rows := make([]CategorySpend, 0, spent.Len())
	spent.Each(func(c core.Category, s decimal.Decimal) {
		b, _ := budgets.Get(c)
		rows = append(rows, CategorySpend{
			Category: c,
			Spent:    s,
			Budget:   b,
			Status:   Classify(s, b),
			Delta:    b.Sub(s),
		})
	})
	return rows
}

// BudgetsByMonth sums every category budget declared for each month.
func BudgetsByMonth(budgets []core.Budget) *Totals[core.MonthKey] {
	out := NewTotals[core.MonthKey]()
	for _, b := range budgets {
		out.Add(b.Month, b.Amount)
	}
	return out
}

// BudgetsByCategory returns the budgets of one month keyed by category.
func BudgetsByCategory(budgets []core.Budget, month core.MonthKey) *Totals[core.Category] {
	out := NewTotals[core.Category]()
	for _, b := range budgets {
		if b.Month == month {
			out.Add(b.Category, b.Amount)
		}
	}
	return out
}

// ReconcileMonthly merges spend and budget totals over the union of their months,
// defaulting the missing side to zero. The result is in chronological order.
func ReconcileMonthly(spent *Totals[core.MonthKey], budgets *Totals[core.MonthKey]) []MonthlySummary {
	byMonth := make(map[core.MonthKey]*MonthlySummary, spent.Len()+budgets.Len())
	get := func(k core.MonthKey) *MonthlySummary {
		s, ok := byMonth[k]
		if !ok {
			s = &MonthlySummary{Month: k, TotalSpent: decimal.Zero, TotalBudget: decimal.Zero}
			byMonth[k] = s
		}
		return s
	}
	spent.Each(func(k core.MonthKey, v decimal.Decimal) {
		get(k).TotalSpent = v
	})
	budgets.Each(func(k core.MonthKey, v decimal.Decimal) {
		get(k).TotalBudget = v
	})

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}
