package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy selects how sibling weights are validated.
type Policy string

const (
	// Strict requires a non-empty level to total exactly 100.
	Strict Policy = "strict"
	// Lenient only requires a level not to exceed 100; the rest stays in cash.
	Lenient Policy = "lenient"
)

var hundred = decimal.NewFromInt(100)

// ParsePolicy maps a config value to a Policy. The empty string is Strict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Strict:
		return Strict, nil
	case Lenient:
		return Lenient, nil
	default:
		return "", fmt.Errorf("unknown allocation policy %q", s)
	}
}

// accepts reports whether a level total is allowed. A zero total is always
// accepted: it models an uninvested level.
func (p Policy) accepts(total decimal.Decimal) bool {
	if total.IsZero() {
		return true
	}
	if p == Lenient {
		return total.LessThanOrEqual(hundred)
	}
	return total.Equal(hundred)
}
