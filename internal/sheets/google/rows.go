package google

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

var (
	summaryHeader   = []interface{}{"Month", "Spent", "Budget", "Status"}
	breakdownHeader = []interface{}{"Month", "Category", "Spent", "Budget", "Remaining", "Status"}
)

func amountCell(d decimal.Decimal) string {
	return d.StringFixed(core.AmountPlaces)
}

// summaryRows renders months oldest first under a header row.
func summaryRows(months []report.MonthlySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(months)+1)
	rows = append(rows, summaryHeader)
	for _, m := range months {
		rows = append(rows, []interface{}{
			m.Month.String(),
			amountCell(m.TotalSpent),
			amountCell(m.TotalBudget),
			string(m.Status()),
		})
	}
	return rows
}

// breakdownRows renders one month's category rows followed by a total row.
func breakdownRows(view report.BreakdownView) [][]interface{} {
	rows := make([][]interface{}, 0, len(view.Rows)+2)
	rows = append(rows, breakdownHeader)
	month := view.Month.String()
	for _, r := range view.Rows {
		rows = append(rows, []interface{}{
			month,
			string(r.Category),
			amountCell(r.Spent),
			amountCell(r.Budget),
			amountCell(r.Delta),
			string(r.Status),
		})
	}
	rows = append(rows, []interface{}{
		month,
		"Total",
		amountCell(view.TotalSpent),
		amountCell(view.TotalBudget),
		amountCell(view.TotalBudget.Sub(view.TotalSpent)),
		string(report.Classify(view.TotalSpent, view.TotalBudget)),
	})
	return rows
}
