// Command spendwisectl records transactions and budgets and prints spending
// reports straight from the configured store.
package main

import (
	"os"

	"github.com/shopspring/decimal"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	c := &ctl{open: openFromConfig}
	err := c.rootCmd().Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}
