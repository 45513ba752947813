package main

import (
	"github.com/spf13/cobra"

	"spendwise/internal/core"
	"spendwise/internal/export"
)

func (c *ctl) txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and list transactions",
	}
	cmd.AddCommand(c.txAddCmd(), c.txListCmd())
	return cmd
}

func (c *ctl) txAddCmd() *cobra.Command {
	var amount, description, date, category string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  spendwisectl tx add --amount 12.50 --description Lunch --category Food
  spendwisectl tx add -a 1200 -d Rent -c Rent --date 2025-07-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := core.TransactionInput{Description: description, Date: date, Category: category}
			if amount != "" {
				a, err := core.ParseAmount(amount)
				if err != nil {
					return err
				}
				in.Amount = &a
			}
			if in.Date == "" {
				in.Date = c.env.reports.Now().Format("2006-01-02")
			}

			tx, err := c.env.ledger.RecordTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.printTransactions(cmd, []core.Transaction{tx}, true)
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount spent, e.g. 12.50")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What the money was spent on")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Registered category")
	cmd.Flags().StringVar(&date, "date", "", "Transaction date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (c *ctl) txListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := c.env.ledger.Transactions(cmd.Context())
			if err != nil {
				return err
			}
			return c.printTransactions(cmd, txs, false)
		},
	}
}

// printTransactions renders txs; single prints one record instead of a list in JSON.
func (c *ctl) printTransactions(cmd *cobra.Command, txs []core.Transaction, single bool) error {
	out := cmd.OutOrStdout()
	switch c.format {
	case formatJSON:
		if single && len(txs) == 1 {
			return writeJSON(out, export.NewTransactionRecord(txs[0]))
		}
		return writeJSON(out, export.TransactionRecords(txs))
	case formatCSV:
		return export.WriteTransactionsCSV(out, txs)
	}

	t := newTable(out, "DATE", "CATEGORY", "DESCRIPTION", "AMOUNT", "ID")
	for _, tx := range txs {
		t.row(tx.Date.String(), tx.Category.String(), tx.Description, c.env.formatter.Amount(tx.Amount), tx.ID)
	}
	return t.flush()
}
