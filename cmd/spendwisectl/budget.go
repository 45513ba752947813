package main

import (
	"github.com/spf13/cobra"

	"spendwise/internal/core"
	"spendwise/internal/export"
)

func (c *ctl) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set and list monthly category budgets",
	}
	cmd.AddCommand(c.budgetSetCmd(), c.budgetListCmd())
	return cmd
}

func (c *ctl) budgetSetCmd() *cobra.Command {
	var month, category, amount string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the budget of a category for a month, replacing any previous amount",
		Example: `  spendwisectl budget set --category Food --amount 300
  spendwisectl budget set -m 2025-08 -c Rent -a 1200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := core.BudgetInput{Month: month, Category: category}
			if amount != "" {
				a, err := core.ParseAmount(amount)
				if err != nil {
					return err
				}
				in.Amount = &a
			}
			if in.Month == "" {
				in.Month = c.env.reports.CurrentMonth().String()
			}

			b, err := c.env.ledger.SetBudget(cmd.Context(), in)
			if err != nil {
				return err
			}
			if c.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), export.NewBudgetRecord(b))
			}
			return c.printBudgets(cmd, []core.Budget{b})
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Budget month YYYY-MM (default current month)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Registered category")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Budget amount, zero or more")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *ctl) budgetListCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets, optionally for one month",
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
			budgets, err := c.env.ledger.Budgets(cmd.Context(), key)
			if err != nil {
				return err
			}
			return c.printBudgets(cmd, budgets)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Only budgets of this month (YYYY-MM)")
	return cmd
}

func (c *ctl) printBudgets(cmd *cobra.Command, budgets []core.Budget) error {
	out := cmd.OutOrStdout()
	switch c.format {
	case formatJSON:
		return writeJSON(out, export.BudgetRecords(budgets))
	case formatCSV:
		return export.WriteBudgetsCSV(out, budgets)
	}

	t := newTable(out, "MONTH", "CATEGORY", "AMOUNT", "ID")
	for _, b := range budgets {
		t.row(b.Month.String(), b.Category.String(), c.env.formatter.Amount(b.Amount), b.ID)
	}
	return t.flush()
}
