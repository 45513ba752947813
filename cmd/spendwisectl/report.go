package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/core"
	"spendwise/internal/export"
	"spendwise/internal/report"
)

func (c *ctl) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print spending reports",
	}
	cmd.AddCommand(c.reportMonthlyCmd(), c.reportCategoriesCmd(), c.reportSummaryCmd())
	return cmd
}

func (c *ctl) reportMonthlyCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Spending and budget per month, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				view report.MonthlyView
				err  error
			)
			if from == "" && to == "" {
				view, err = c.env.reports.MonthlyTotals(cmd.Context())
			} else {
				view, err = c.monthlyBetween(cmd, from, to)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch c.format {
			case formatJSON:
				return writeJSON(out, c.env.formatter.MonthlyRecord(view))
			case formatCSV:
				return export.WriteMonthlyCSV(out, view.Months)
			}

			f := c.env.formatter
			t := newTable(out, "MONTH", "SPENT", "BUDGET", "STATUS")
			for _, m := range view.Months {
				t.row(m.Month.Label(), f.Amount(m.TotalSpent), f.Amount(m.TotalBudget), string(m.Status()))
			}
			if err := t.flush(); err != nil {
				return err
			}
			if msg := f.BannerMessage(view.Banner); msg != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First month to include (YYYY-MM)")
	cmd.Flags().StringVar(&to, "to", "", "Last month to include (YYYY-MM)")
	return cmd
}

// monthlyBetween runs the monthly report over from..to; an empty bound is open.
func (c *ctl) monthlyBetween(cmd *cobra.Command, from, to string) (report.MonthlyView, error) {
	lo, hi := core.MonthKey{}, core.NewMonthKey(9999, time.December)
	if from != "" {
		m, err := core.ParseMonthKey(from)
		if err != nil {
			return report.MonthlyView{}, fmt.Errorf("--from: %w", err)
		}
		lo = m
	}
	if to != "" {
		m, err := core.ParseMonthKey(to)
		if err != nil {
			return report.MonthlyView{}, fmt.Errorf("--to: %w", err)
		}
		hi = m
	}
	if hi.Before(lo) {
		return report.MonthlyView{}, fmt.Errorf("--to %s is before --from %s", hi, lo)
	}
	return c.env.reports.MonthlyTotalsBetween(cmd.Context(), lo, hi)
}

func (c *ctl) reportCategoriesCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Spending against budget per category for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var key *core.MonthKey
			if month != "" {
				m, err := core.ParseMonthKey(month)
				if err != nil {
					return err
				}
				key = &m
			}
			view, err := c.env.reports.CategoryBreakdown(cmd.Context(), key)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch c.format {
			case formatJSON:
				return writeJSON(out, export.BreakdownRecord(view))
			case formatCSV:
				return export.WriteBreakdownCSV(out, view)
			}

			if view.Empty {
				_, err := fmt.Fprintf(out, "No spending or budgets for %s.\n", view.Month.Label())
				return err
			}
			f := c.env.formatter
			t := newTable(out, "CATEGORY", "SPENT", "BUDGET", "DELTA", "STATUS")
			for _, r := range view.Rows {
				t.row(r.Category.String(), f.Amount(r.Spent), f.Amount(r.Budget), f.Amount(r.Delta), string(r.Status))
			}
			t.row("TOTAL", f.Amount(view.TotalSpent), f.Amount(view.TotalBudget), "", "")
			return t.flush()
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month YYYY-MM (default current month)")
	return cmd
}

func (c *ctl) reportSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Headline totals and the top category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kpis, err := c.env.reports.Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch c.format {
			case formatJSON:
				return writeJSON(out, kpis)
			case formatCSV:
				return export.WriteSummaryCSV(out, kpis)
			}

			f := c.env.formatter
			top := "-"
			if kpis.Top != nil {
				top = kpis.Top.Category.String() + " (" + f.Amount(kpis.Top.Amount) + ")"
			}
			t := newTable(out, "METRIC", "VALUE")
			t.row("Total spent", f.Amount(kpis.Total))
			t.row("This month", f.Amount(kpis.MonthTotal))
			t.row("Transactions", strconv.Itoa(kpis.Count))
			t.row("Top category", top)
			return t.flush()
		},
	}
}

func (c *ctl) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the registered categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := c.env.ledger.Registry().Names()
			out := cmd.OutOrStdout()
			if c.format == formatJSON {
				return writeJSON(out, names)
			}
			for _, n := range names {
				if _, err := fmt.Fprintln(out, n); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
