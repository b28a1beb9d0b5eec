package orders

import (
	"github.com/shopspring/decimal"
)

// TruncateCents drops everything past the cent without rounding up, so a
// notional never commits more cash than was planned.
func TruncateCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Abs().Truncate(2)
}

// ReferencePrice picks the ask, falling back to the bid.
func (q Quote) ReferencePrice() (decimal.Decimal, bool) {
	if q.AskPrice.IsPositive() {
		return q.AskPrice, true
	}
	if q.BidPrice.IsPositive() {
		return q.BidPrice, true
	}
	return decimal.Zero, false
}

// WholeShares returns how many whole shares amount buys at price.
func WholeShares(amount, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(price).Floor()
}
