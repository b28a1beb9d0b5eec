package allocation

import "github.com/shopspring/decimal"

// Allocation is the dollar amount aimed at one terminal symbol.
type Allocation struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

// Target is the flattened allocation, one entry per symbol, in order of first
// appearance in the tree.
type Target []Allocation

// Amount returns the target amount for symbol.
func (t Target) Amount(symbol string) (decimal.Decimal, bool) {
	for _, a := range t {
		if a.Symbol == symbol {
			return a.Amount, true
		}
	}
	return decimal.Zero, false
}

// Total sums every target amount.
func (t Target) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range t {
		total = total.Add(a.Amount)
	}
	return total
}

// Merge folds contributions into a Target, summing symbols that appear in
// more than one branch.
func Merge(contributions []Allocation) Target {
	index := make(map[string]int, len(contributions))
	target := make(Target, 0, len(contributions))
	for _, c := range contributions {
		if i, ok := index[c.Symbol]; ok {
			target[i].Amount = target[i].Amount.Add(c.Amount)
			continue
		}
		index[c.Symbol] = len(target)
		target = append(target, c)
	}
	return target
}
