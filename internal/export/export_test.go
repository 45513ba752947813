package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

func TestFormatter_Amount(t *testing.T) {
	f := NewFormatter("₹", language.English)

	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"1234.5", "₹1,234.50"},
		{"1000000.25", "₹1,000,000.25"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Amount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_BannerMessage(t *testing.T) {
	f := NewFormatter("₹", language.English)

	assert.Equal(t, "You are overspent by ₹150.00 this month.",
		f.BannerMessage(report.Banner{Kind: report.BannerOverspent, Amount: decimal.NewFromInt(150)}))
	assert.Equal(t, "₹2,000.00 left in your budget this month.",
		f.BannerMessage(report.Banner{Kind: report.BannerRemaining, Amount: decimal.NewFromInt(2000)}))
	assert.Empty(t, f.BannerMessage(report.Banner{Kind: report.BannerNoBudget}))
}

func TestWriteMonthlyCSV(t *testing.T) {
	months := []report.MonthlySummary{
		{Month: core.NewMonthKey(2025, time.June), TotalSpent: decimal.NewFromInt(300), TotalBudget: decimal.Zero},
		{Month: core.NewMonthKey(2025, time.July), TotalSpent: decimal.NewFromInt(120), TotalBudget: decimal.NewFromInt(100)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, months))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "month,label,spent,budget,status", lines[0])
	assert.Equal(t, "2025-06,Jun 2025,300.00,0.00,no_budget", lines[1])
	assert.Equal(t, "2025-07,Jul 2025,120.00,100.00,overspent", lines[2])
}

func TestWriteBreakdownCSV(t *testing.T) {
	view := report.BreakdownView{
		Month: core.NewMonthKey(2025, time.July),
		Rows: []report.CategorySpend{{
			Category: "Food",
			Spent:    decimal.NewFromInt(80),
			Budget:   decimal.NewFromInt(100),
			Delta:    decimal.NewFromInt(20),
			Status:   report.StatusWithinBudget,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdownCSV(&buf, view))
	assert.Equal(t, "category,spent,budget,delta,status\nFood,80.00,100.00,20.00,within_budget\n", buf.String())
}

func TestWriteTransactionsCSV_QuotesDescriptions(t *testing.T) {
	txs := []core.Transaction{{
		ID:          "t1",
		Amount:      decimal.RequireFromString("12.5"),
		Description: "Lunch, with team",
		Date:        core.NewDate(2025, time.July, 3),
		Category:    "Food",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, txs))
	assert.Contains(t, buf.String(), `t1,2025-07-03,Food,"Lunch, with team",12.50`)
}

func TestWriteBudgetsCSV(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b1", Month: core.NewMonthKey(2025, time.July), Category: "Food", Amount: decimal.NewFromInt(200)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBudgetsCSV(&buf, budgets))
	assert.Equal(t, "id,month,category,amount\nb1,2025-07,Food,200.00\n", buf.String())
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, report.KPIs{
		Total:      decimal.RequireFromString("350.5"),
		MonthTotal: decimal.NewFromInt(50),
		Count:      4,
		Top:        &report.CategoryTotal{Category: "Rent", Amount: decimal.NewFromInt(300)},
	}))
	assert.Equal(t, "total,month_total,count,top_category,top_amount\n350.50,50.00,4,Rent,300.00\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSummaryCSV(&buf, report.KPIs{}))
	assert.Equal(t, "total,month_total,count,top_category,top_amount\n0.00,0.00,0,,\n", buf.String())
}
