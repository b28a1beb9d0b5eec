package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ImbalanceError reports a tree level whose sibling weights break the
// conservation rule of the active Policy.
type ImbalanceError struct {
	Path   []string
	Total  decimal.Decimal
	Policy Policy
}

func (e *ImbalanceError) Error() string {
	rule := "add up to 100"
	if e.Policy == Lenient {
		rule = "stay within 100"
	}
	return fmt.Sprintf("percentages at %s total %s and do not %s", levelName(e.Path), e.Total.String(), rule)
}

// WeightRangeError reports a node whose weight lies outside 0 to 100.
type WeightRangeError struct {
	Path    []string
	Symbol  string
	Percent decimal.Decimal
}

func (e *WeightRangeError) Error() string {
	return fmt.Sprintf("percent %s of %s at %s is outside 0 to 100", e.Percent.String(), e.Symbol, levelName(e.Path))
}

// CycleError reports a sub-model that references itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("model cycle detected at %s", strings.Join(e.Path, " > "))
}

func levelName(path []string) string {
	if len(path) == 0 {
		return "top level"
	}
	return "model " + strings.Join(path, " > ")
}
