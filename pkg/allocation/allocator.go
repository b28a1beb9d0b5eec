// Package allocation flattens a weighted model tree into dollar targets per
// tradeable symbol.
package allocation

import (
	"github.com/shopspring/decimal"

	"rebalancer/pkg/models"
)

// Allocate distributes totalCash over the tree rooted at nodes and returns the
// merged target per terminal symbol. A malformed level fails the whole call.
func Allocate(totalCash decimal.Decimal, nodes []models.AllocationNode, policy Policy) (Target, error) {
	registry := models.NewRegistry(nodes)

	contributions, err := Distribute(totalCash, nodes, hundred, registry, policy)
	if err != nil {
		return nil, err
	}
	return Merge(contributions), nil
}

// Distribute returns the raw contribution of every terminal node below items.
// parentPercent is the share of cash the items level controls, already
// composed through every enclosing model.
func Distribute(cash decimal.Decimal, items []models.AllocationNode, parentPercent decimal.Decimal, registry models.Registry, policy Policy) ([]Allocation, error) {
	w := walker{cash: cash, registry: registry, policy: policy, visiting: map[string]bool{}}
	return w.distribute(items, parentPercent, nil)
}

type walker struct {
	cash     decimal.Decimal
	registry models.Registry
	policy   Policy
	visiting map[string]bool
}

func (w walker) distribute(items []models.AllocationNode, parentPercent decimal.Decimal, path []string) ([]Allocation, error) {
	for _, item := range items {
		if item.Percent.IsNegative() || item.Percent.GreaterThan(hundred) {
			return nil, &WeightRangeError{Path: path, Symbol: item.Symbol, Percent: item.Percent}
		}
	}

	if !parentPercent.IsZero() {
		if total := models.SumPercent(items); !w.policy.accepts(total) {
			return nil, &ImbalanceError{Path: path, Total: total, Policy: w.policy}
		}
	}

	var out []Allocation
	for _, item := range items {
		if children, ok := w.registry.Lookup(item.Symbol); ok {
			nested, err := w.descend(item, children, parentPercent, path)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}

		if !item.Percent.IsPositive() || parentPercent.IsZero() {
			continue
		}

		// Every level scales the original cash; siblings never see what
		// the others took.
		amount := w.cash.Mul(item.Percent).Div(hundred).Mul(parentPercent).Div(hundred)
		out = append(out, Allocation{Symbol: item.Symbol, Amount: amount})
	}
	return out, nil
}

func (w walker) descend(item models.AllocationNode, children []models.AllocationNode, parentPercent decimal.Decimal, path []string) ([]Allocation, error) {
	next := append(append([]string{}, path...), item.Symbol)
	if w.visiting[item.Symbol] {
		return nil, &CycleError{Path: next}
	}

	w.visiting[item.Symbol] = true
	defer delete(w.visiting, item.Symbol)

	return w.distribute(children, parentPercent.Mul(item.Percent).Div(hundred), next)
}
