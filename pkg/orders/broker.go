// Package orders submits rebalance deltas to a brokerage, one at a time.
package orders

import (
	"context"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// TimeInForce is how long an order stays working at the broker.
type TimeInForce string

const (
	Day TimeInForce = "day"
	GTC TimeInForce = "gtc"
)

// Request is a market order sized either by Notional dollars or by Qty shares.
type Request struct {
	Symbol        string
	Side          Side
	Notional      *decimal.Decimal
	Qty           *decimal.Decimal
	TimeInForce   TimeInForce
	ClientOrderID string
}

// Submitted is the broker's acknowledgement of a Request.
type Submitted struct {
	ID            string
	ClientOrderID string
	Status        string
}

// Quote is the latest top of book for a symbol. Missing sides are zero.
type Quote struct {
	AskPrice decimal.Decimal
	BidPrice decimal.Decimal
}

// Broker is the part of the brokerage the placer needs.
type Broker interface {
	SubmitOrder(ctx context.Context, req Request) (*Submitted, error)
	LatestQuote(ctx context.Context, symbol string) (Quote, error)
}
