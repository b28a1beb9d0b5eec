package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Dollars formats an amount as USD, truncated to the cent.
func Dollars(amount decimal.Decimal) string {
	return money.New(amount.Shift(2).IntPart(), money.USD).Display()
}

// Percent formats a percentage with two decimals.
func Percent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

func optional(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
