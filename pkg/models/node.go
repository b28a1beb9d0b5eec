package models

import "github.com/shopspring/decimal"

// AllocationNode is one weighted entry of an allocation tree. Symbol is either
// a tradeable instrument or the name of a sub-model; Children is only set on
// the node that defines a sub-model.
type AllocationNode struct {
	Symbol   string           `json:"symbol"`
	Percent  decimal.Decimal  `json:"percent"`
	Children []AllocationNode `json:"models,omitempty"`
}

// IsModel reports whether the node defines a sub-model.
func (n AllocationNode) IsModel() bool {
	return len(n.Children) > 0
}

// Document is the content of a model file.
type Document struct {
	Models      []AllocationNode `json:"models"`
	SellEnabled bool             `json:"sellEnabled"`
	// Paper overrides the trading mode from the environment when set.
	Paper *bool `json:"paper,omitempty"`
}

// SumPercent returns the sum of the sibling weights.
func SumPercent(nodes []AllocationNode) decimal.Decimal {
	total := decimal.Zero
	for _, n := range nodes {
		total = total.Add(n.Percent)
	}
	return total
}
