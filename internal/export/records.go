package export

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

// TransactionRecord is the JSON shape of a transaction.
type TransactionRecord struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        core.Date       `json:"date"`
	Category    core.Category   `json:"category"`
}

// BudgetRecord is the JSON shape of a budget.
type BudgetRecord struct {
	ID       string          `json:"id"`
	Month    core.MonthKey   `json:"month"`
	Category core.Category   `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthRecord is one month of the monthly report with its display label and status.
type MonthRecord struct {
	Month       core.MonthKey   `json:"month"`
	Label       string          `json:"label"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Status      report.Status   `json:"status"`
}

type BannerRecord struct {
	report.Banner
	Message string `json:"message"`
}

type MonthlyRecord struct {
	Months  []MonthRecord `json:"months"`
	Current *MonthRecord  `json:"current"`
	Banner  BannerRecord  `json:"banner"`
}

func NewTransactionRecord(tx core.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date,
		Category:    tx.Category,
	}
}

// TransactionRecords never returns nil so empty lists encode as [].
func TransactionRecords(txs []core.Transaction) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionRecord(tx))
	}
	return out
}

func NewBudgetRecord(b core.Budget) BudgetRecord {
	return BudgetRecord{ID: b.ID, Month: b.Month, Category: b.Category, Amount: b.Amount}
}

func BudgetRecords(budgets []core.Budget) []BudgetRecord {
	out := make([]BudgetRecord, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, NewBudgetRecord(b))
	}
	return out
}

func NewMonthRecord(m report.MonthlySummary) MonthRecord {
	return MonthRecord{
		Month:       m.Month,
		Label:       m.Month.Label(),
		TotalSpent:  m.TotalSpent,
		TotalBudget: m.TotalBudget,
		Status:      m.Status(),
	}
}

// MonthlyRecord renders the monthly view with the banner message in the
// formatter's locale.
func (f *Formatter) MonthlyRecord(view report.MonthlyView) MonthlyRecord {
	out := MonthlyRecord{
		Months: make([]MonthRecord, 0, len(view.Months)),
		Banner: BannerRecord{Banner: view.Banner, Message: f.BannerMessage(view.Banner)},
	}
	for _, m := range view.Months {
		out.Months = append(out.Months, NewMonthRecord(m))
	}
	if view.Current != nil {
		c := NewMonthRecord(*view.Current)
		out.Current = &c
	}
	return out
}

// BreakdownRecord returns view with a non-nil Rows slice.
func BreakdownRecord(view report.BreakdownView) report.BreakdownView {
	if view.Rows == nil {
		view.Rows = []report.CategorySpend{}
	}
	return view
}
