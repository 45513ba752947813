package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/cli"
	"spendwise/internal/core"
	"spendwise/internal/export"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

// env is what every subcommand works against.
type env struct {
	ledger    *services.LedgerService
	reports   *services.ReportService
	formatter *export.Formatter
	close     func() error
}

// opener builds the env. asOf pins the report clock to a calendar day when set.
type opener func(ctx context.Context, asOf *core.Date) (*env, error)

type ctl struct {
	open   opener
	format string
	asOf   string
	env    *env
}

func (c *ctl) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spendwisectl",
		Short: "Record spending and inspect budgets from the command line",
		Long: `spendwisectl records transactions and monthly budgets and prints the
monthly, per-category and summary reports as a table, JSON or CSV.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	cmd.PersistentFlags().StringVarP(&c.format, "format", "f", formatTable, "Output format: table, json or csv")
	cmd.PersistentFlags().StringVar(&c.asOf, "as-of", "", "Evaluate reports as of this date (YYYY-MM-DD)")

	cmd.AddCommand(c.txCmd(), c.budgetCmd(), c.reportCmd(), c.categoriesCmd())
	return cmd
}

func (c *ctl) setup(cmd *cobra.Command, _ []string) error {
	switch c.format {
	case formatTable, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", c.format)
	}

	var asOf *core.Date
	if c.asOf != "" {
		d, err := core.ParseDate(c.asOf)
		if err != nil {
			return fmt.Errorf("--as-of: %w", err)
		}
		asOf = &d
	}

	e, err := c.open(cmd.Context(), asOf)
	if err != nil {
		return err
	}
	c.env = e
	return nil
}

func (c *ctl) close() error {
	if c.env == nil || c.env.close == nil {
		return nil
	}
	err := c.env.close()
	c.env = nil
	return err
}

// openFromConfig builds the env from the process environment. Logs go to
// stderr so they never mix with command output.
func openFromConfig(ctx context.Context, asOf *core.Date) (*env, error) {
	cfg, logger, err := cli.Setup(applog.ComponentCLI, os.Stderr)
	if err != nil {
		return nil, err
	}

	var clock core.Clock = core.SystemClock{}
	if asOf != nil {
		clock = pinnedClock(*asOf, cfg.Location())
	}

	app, err := cli.NewApp(ctx, cfg, logger, clock)
	if err != nil {
		return nil, err
	}
	return &env{
		ledger:    app.Ledger,
		reports:   app.Reports,
		formatter: export.NewFormatter(cfg.CurrencySymbol, cfg.Language()),
		close:     app.Close,
	}, nil
}

// pinnedClock stops time at midday of d in loc.
func pinnedClock(d core.Date, loc *time.Location) *core.FixedClock {
	return &core.FixedClock{At: time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)}
}
