package report

import (
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// BannerKind is the current-month budget banner state.
type BannerKind string

const (
	BannerNoBudget  BannerKind = "no_budget"
	BannerOverspent BannerKind = "overspent"
	BannerRemaining BannerKind = "remaining"
)

// Banner is a pure classification of the current month. Rendering it to text
// belongs to the presentation layer.
type Banner struct {
	Kind   BannerKind      `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// CurrentMonthBanner classifies the summary of the current month. An absent
// summary or a zero budget yields BannerNoBudget.
func CurrentMonthBanner(s *MonthlySummary) Banner {
	if s == nil || !s.TotalBudget.IsPositive() {
		return Banner{Kind: BannerNoBudget, Amount: decimal.Zero}
	}
	if s.TotalSpent.GreaterThan(s.TotalBudget) {
		return Banner{Kind: BannerOverspent, Amount: s.TotalSpent.Sub(s.TotalBudget)}
	}
	return Banner{Kind: BannerRemaining, Amount: s.TotalBudget.Sub(s.TotalSpent)}
}

type CategoryTotal struct {
	Category core.Category   `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// TopCategory returns the category with the largest total over all of txs.
// On a tie the category that appeared first in txs wins.
func (e *Engine) TopCategory(txs []core.Transaction) (CategoryTotal, bool) {
	totals := e.AggregateByCategory(txs, All())
	var (
		top   CategoryTotal
		found bool
	)
	totals.Each(func(c core.Category, sum decimal.Decimal) {
		if !found || sum.GreaterThan(top.Amount) {
			top = CategoryTotal{Category: c, Amount: sum}
			found = true
		}
	})
	return top, found
}

// KPIs are the headline numbers of the summary view.
type KPIs struct {
	Total      decimal.Decimal `json:"total"`
	MonthTotal decimal.Decimal `json:"monthTotal"`
	Count      int             `json:"count"`
	Top        *CategoryTotal  `json:"topCategory"`
}

// SummaryKPIs computes totals over txs. MonthTotal uses the calendar month of now.
// Total, MonthTotal and Count cover every transaction; only Top skips
// unclassified ones.
func (e *Engine) SummaryKPIs(txs []core.Transaction, now time.Time) KPIs {
	k := KPIs{
		Total:      sumWindow(txs, All()),
		MonthTotal: sumWindow(txs, SameMonth(now)),
		Count:      len(txs),
	}
	if top, ok := e.TopCategory(txs); ok {
		k.Top = &top
	}
	return k
}

// MonthlyView is the month-by-month totals view with the current-month banner.
type MonthlyView struct {
	Months  []MonthlySummary `json:"months"`
	Current *MonthlySummary  `json:"current"`
	Banner  Banner           `json:"banner"`
}

// MonthlyTotals reconciles all months and picks out the month of now.
func (e *Engine) MonthlyTotals(txs []core.Transaction, budgets []core.Budget, now time.Time) MonthlyView {
	months := ReconcileMonthly(e.AggregateByMonth(txs), BudgetsByMonth(budgets))
	view := MonthlyView{Months: months}
	current := core.MonthOf(now)
	for i := range months {
		if months[i].Month == current {
			s := months[i]
			view.Current = &s
			break
		}
	}
	view.Banner = CurrentMonthBanner(view.Current)
	return view
}

// MonthlyTotalsBetween is MonthlyTotals with Months limited to from..to
// inclusive. Current and Banner still describe the month of now.
func (e *Engine) MonthlyTotalsBetween(txs []core.Transaction, budgets []core.Budget, now time.Time, from, to core.MonthKey) MonthlyView {
	view := e.MonthlyTotals(txs, budgets, now)

	in := Between(from, to)
	var spent []core.Transaction
	for _, tx := range txs {
		if in(tx.Date) {
			spent = append(spent, tx)
		}
	}
	var planned []core.Budget
	for _, b := range budgets {
		if !b.Month.Before(from) && !to.Before(b.Month) {
			planned = append(planned, b)
		}
	}
	view.Months = ReconcileMonthly(e.AggregateByMonth(spent), BudgetsByMonth(planned))
	return view
}

// BreakdownView is the per-category spend of a single month.
type BreakdownView struct {
	Month       core.MonthKey   `json:"month"`
	Rows        []CategorySpend `json:"rows"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Empty       bool            `json:"empty"`
}

// CategoryBreakdown reconciles the spend of month against that month's budgets.
func (e *Engine) CategoryBreakdown(txs []core.Transaction, budgets []core.Budget, month core.MonthKey) BreakdownView {
	spent := e.AggregateByCategory(txs, InMonth(month))
	byCat := BudgetsByCategory(budgets, month)
	rows := Reconcile(spent, byCat)
	return BreakdownView{
		Month:       month,
		Rows:        rows,
		TotalSpent:  spent.Sum(),
		TotalBudget: byCat.Sum(),
		Empty:       len(rows) == 0,
	}
}

// CurrentBreakdown is CategoryBreakdown for the calendar month of now.
func (e *Engine) CurrentBreakdown(txs []core.Transaction, budgets []core.Budget, now time.Time) BreakdownView {
	return e.CategoryBreakdown(txs, budgets, core.MonthOf(now))
}

func sumWindow(txs []core.Transaction, window Window) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if window(tx.Date) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
