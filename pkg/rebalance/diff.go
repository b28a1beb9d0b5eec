package rebalance

import (
	"github.com/shopspring/decimal"

	"rebalancer/pkg/allocation"
)

// Diff compares target against positions. Every held symbol worth more than
// its target (zero when absent) is sold down; every target symbol worth more
// than its holding is bought up. A symbol never lands on both sides.
func Diff(target allocation.Target, positions []Position) Plan {
	held := make(map[string]decimal.Decimal, len(positions))
	order := make([]string, 0, len(positions))
	for _, p := range positions {
		if _, seen := held[p.Symbol]; !seen {
			order = append(order, p.Symbol)
		}
		held[p.Symbol] = held[p.Symbol].Add(p.MarketValue)
	}

	var plan Plan
	for _, symbol := range order {
		current := held[symbol]
		want, _ := target.Amount(symbol)
		if current.GreaterThan(want) {
			plan.Sells = append(plan.Sells, DeltaOrder{Symbol: symbol, Amount: want.Sub(current)})
		}
	}

	for _, a := range target {
		current := held[a.Symbol]
		if a.Amount.GreaterThan(current) {
			plan.Buys = append(plan.Buys, DeltaOrder{Symbol: a.Symbol, Amount: a.Amount.Sub(current)})
		}
	}
	return plan
}

// CashOnly treats the target as new money: every positive amount is a buy and
// nothing is ever sold.
func CashOnly(target allocation.Target) Plan {
	var plan Plan
	for _, a := range target {
		if a.Amount.IsPositive() {
			plan.Buys = append(plan.Buys, DeltaOrder{Symbol: a.Symbol, Amount: a.Amount})
		}
	}
	return plan
}

// CapBuys scales every buy down by the same factor so the buys together spend
// no more than budget. Amounts are truncated to cents and buys that round to
// nothing are dropped. Sells are left untouched.
func (p Plan) CapBuys(budget decimal.Decimal) Plan {
	total := decimal.Zero
	for _, b := range p.Buys {
		total = total.Add(b.Amount)
	}
	if total.LessThanOrEqual(budget) {
		return p
	}

	capped := Plan{Sells: p.Sells}
	if !budget.IsPositive() {
		return capped
	}
	for _, b := range p.Buys {
		amount := b.Amount.Mul(budget).Div(total).Truncate(2)
		if amount.IsPositive() {
			capped.Buys = append(capped.Buys, DeltaOrder{Symbol: b.Symbol, Amount: amount})
		}
	}
	return capped
}
