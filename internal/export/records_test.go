package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

func TestMonthlyRecord(t *testing.T) {
	f := NewFormatter("₹", language.English)
	july := report.MonthlySummary{
		Month:       core.NewMonthKey(2025, time.July),
		TotalSpent:  decimal.NewFromInt(120),
		TotalBudget: decimal.NewFromInt(100),
	}
	view := report.MonthlyView{
		Months:  []report.MonthlySummary{july},
		Current: &july,
		Banner:  report.CurrentMonthBanner(&july),
	}

	rec := f.MonthlyRecord(view)
	require.Len(t, rec.Months, 1)
	assert.Equal(t, "Jul 2025", rec.Months[0].Label)
	assert.Equal(t, report.StatusOverspent, rec.Months[0].Status)
	require.NotNil(t, rec.Current)
	assert.Equal(t, "You are overspent by ₹20.00 this month.", rec.Banner.Message)
}

func TestMonthlyRecord_Empty(t *testing.T) {
	f := NewFormatter("₹", language.English)
	rec := f.MonthlyRecord(report.MonthlyView{Banner: report.CurrentMonthBanner(nil)})

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"months":[]`)
	assert.Contains(t, string(b), `"current":null`)
	assert.Empty(t, rec.Banner.Message)
}

func TestTransactionRecords(t *testing.T) {
	assert.NotNil(t, TransactionRecords(nil))
	assert.NotNil(t, BudgetRecords(nil))

	tx := core.Transaction{
		ID:          "t1",
		Amount:      decimal.RequireFromString("12.5"),
		Description: "Lunch",
		Date:        core.NewDate(2025, time.July, 3),
		Category:    "Food",
	}
	b, err := json.Marshal(NewTransactionRecord(tx))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2025-07-03"`)
	assert.Contains(t, string(b), `"category":"Food"`)
}

func TestBreakdownRecord(t *testing.T) {
	view := BreakdownRecord(report.BreakdownView{Month: core.NewMonthKey(2025, time.July), Empty: true})
	assert.NotNil(t, view.Rows)
}
