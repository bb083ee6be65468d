// Package money holds the decimal helpers shared by the cart, pricing and
// checkout packages.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencyLabel is appended to every displayed amount.
const DefaultCurrencyLabel = "RWF"

func init() {
	// Amounts travel as JSON numbers, matching what the storefront UI sends.
	decimal.MarshalJSONWithoutQuotes = true
}

var printer = message.NewPrinter(language.English)

// LineTotal returns unitPrice × quantity without rounding.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Format renders an amount rounded to a whole unit, grouped by thousands and
// suffixed with the currency label, e.g. "15,000 RWF".
func Format(amount decimal.Decimal, label string) string {
	if label == "" {
		label = DefaultCurrencyLabel
	}
	return printer.Sprintf("%d %s", amount.Round(0).IntPart(), label)
}

// Equal compares two amounts at cent precision. Clients compute totals with
// binary floats, so exact comparison would reject honest requests.
func Equal(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
