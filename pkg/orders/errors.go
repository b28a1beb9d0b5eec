package orders

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFractionable marks a notional order rejected because the asset only
// trades in whole shares.
var ErrNotFractionable = errors.New("asset is not fractionable")

const notFractionableMessage = "not fractionable"

// IsNotFractionable reports whether err is the broker's fractional rejection,
// either wrapped explicitly or recognizable from its message.
func IsNotFractionable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFractionable) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), notFractionableMessage)
}

// SubmissionError is a rejected or failed order submission. It only affects
// the order it names.
type SubmissionError struct {
	Symbol string
	Side   Side
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Side, e.Symbol, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// QuoteUnavailableError means neither an ask nor a bid price was quoted, so
// no share quantity can be computed.
type QuoteUnavailableError struct {
	Symbol string
}

func (e *QuoteUnavailableError) Error() string {
	return fmt.Sprintf("no ask or bid price quoted for %s", e.Symbol)
}
