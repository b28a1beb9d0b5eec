// Package rebalance turns a target allocation and the current holdings into
// signed dollar deltas.
package rebalance

import "github.com/shopspring/decimal"

// Position is a holding as reported by the brokerage.
type Position struct {
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	MarketValue   decimal.Decimal `json:"market_value"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
}

// PnL is the unrealized profit or loss.
func (p Position) PnL() decimal.Decimal {
	return p.MarketValue.Sub(p.CostBasis)
}

// PnLPercent is PnL relative to cost basis, zero when there is no basis.
func (p Position) PnLPercent() decimal.Decimal {
	if p.CostBasis.IsZero() {
		return decimal.Zero
	}
	return p.PnL().Div(p.CostBasis).Mul(decimal.NewFromInt(100))
}

// DeltaOrder moves exposure in Symbol by Amount dollars: negative sells,
// positive buys.
type DeltaOrder struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

// IsSell reports whether the delta reduces exposure.
func (o DeltaOrder) IsSell() bool {
	return o.Amount.IsNegative()
}

// Plan holds the deltas of one rebalance, sells kept apart so they can be
// placed before any buy.
type Plan struct {
	Sells []DeltaOrder `json:"sells"`
	Buys  []DeltaOrder `json:"buys"`
}

// Orders returns sells followed by buys.
func (p Plan) Orders() []DeltaOrder {
	out := make([]DeltaOrder, 0, len(p.Sells)+len(p.Buys))
	out = append(out, p.Sells...)
	return append(out, p.Buys...)
}

// IsEmpty reports whether nothing needs to trade.
func (p Plan) IsEmpty() bool {
	return len(p.Sells) == 0 && len(p.Buys) == 0
}
