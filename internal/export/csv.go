package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

type monthlyRow struct {
	Month  string `csv:"month"`
	Label  string `csv:"label"`
	Spent  string `csv:"spent"`
	Budget string `csv:"budget"`
	Status string `csv:"status"`
}

type breakdownRow struct {
	Category string `csv:"category"`
	Spent    string `csv:"spent"`
	Budget   string `csv:"budget"`
	Delta    string `csv:"delta"`
	Status   string `csv:"status"`
}

type transactionRow struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

func plain(d decimal.Decimal) string {
	return d.StringFixed(core.AmountPlaces)
}

// WriteMonthlyCSV writes one line per month, oldest first.
func WriteMonthlyCSV(w io.Writer, months []report.MonthlySummary) error {
	rows := make([]*monthlyRow, 0, len(months))
	for _, m := range months {
		rows = append(rows, &monthlyRow{
			Month:  m.Month.String(),
			Label:  m.Month.Label(),
			Spent:  plain(m.TotalSpent),
			Budget: plain(m.TotalBudget),
			Status: string(m.Status()),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write monthly csv: %w", err)
	}
	return nil
}

// WriteBreakdownCSV writes one line per category row of the view.
func WriteBreakdownCSV(w io.Writer, view report.BreakdownView) error {
	rows := make([]*breakdownRow, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, &breakdownRow{
			Category: r.Category.String(),
			Spent:    plain(r.Spent),
			Budget:   plain(r.Budget),
			Delta:    plain(r.Delta),
			Status:   string(r.Status),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write breakdown csv: %w", err)
	}
	return nil
}

// WriteTransactionsCSV writes transactions in the order given.
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction) error {
	rows := make([]*transactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, &transactionRow{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Category:    tx.Category.String(),
			Description: tx.Description,
			Amount:      plain(tx.Amount),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}

type budgetRow struct {
	ID       string `csv:"id"`
	Month    string `csv:"month"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
}

func WriteBudgetsCSV(w io.Writer, budgets []core.Budget) error {
	rows := make([]*budgetRow, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, &budgetRow{
			ID:       b.ID,
			Month:    b.Month.String(),
			Category: b.Category.String(),
			Amount:   plain(b.Amount),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write budgets csv: %w", err)
	}
	return nil
}

type summaryRow struct {
	Total       string `csv:"total"`
	MonthTotal  string `csv:"month_total"`
	Count       int    `csv:"count"`
	TopCategory string `csv:"top_category"`
	TopAmount   string `csv:"top_amount"`
}

// WriteSummaryCSV writes the KPIs as a single line. The top columns are empty
// when no registered category has spending.
func WriteSummaryCSV(w io.Writer, k report.KPIs) error {
	row := &summaryRow{
		Total:      plain(k.Total),
		MonthTotal: plain(k.MonthTotal),
		Count:      k.Count,
	}
	if k.Top != nil {
		row.TopCategory = k.Top.Category.String()
		row.TopAmount = plain(k.Top.Amount)
	}
	if err := gocsv.Marshal([]*summaryRow{row}, w); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}
