// Package export renders report views for people and files: localized amounts,
// banner sentences and CSV documents.
package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"spendwise/internal/core"
	"spendwise/internal/report"
)

// Formatter prints amounts with a currency symbol and locale digit grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

func NewFormatter(symbol string, tag language.Tag) *Formatter {
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Amount formats d for display, e.g. "₹1,234.50". Display only: the value is
// converted to float64 after rounding to two places.
func (f *Formatter) Amount(d decimal.Decimal) string {
	v := d.Round(core.AmountPlaces).InexactFloat64()
	return f.symbol + f.printer.Sprint(number.Decimal(v, number.Scale(core.AmountPlaces)))
}

// BannerMessage renders the current-month banner. A month without a budget has
// no message.
func (f *Formatter) BannerMessage(b report.Banner) string {
	switch b.Kind {
	case report.BannerOverspent:
		return "You are overspent by " + f.Amount(b.Amount) + " this month."
	case report.BannerRemaining:
		return f.Amount(b.Amount) + " left in your budget this month."
	default:
		return ""
	}
}
