package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rebalancer/pkg/rebalance"
)

// Outcome classifies what happened to a single delta.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeFallback  Outcome = "fallback"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records what happened to one delta.
type Result struct {
	Order         rebalance.DeltaOrder
	Side          Side
	Notional      decimal.Decimal
	Qty           decimal.Decimal
	Outcome       Outcome
	OrderID       string
	ClientOrderID string
	Err           error
}

// Placer turns deltas into market orders.
type Placer struct {
	broker      Broker
	timeInForce TimeInForce
	logger      *zap.Logger
	newID       func() string
}

// NewPlacer returns a Placer that submits through broker. A nil logger logs nothing.
func NewPlacer(broker Broker, timeInForce TimeInForce, logger *zap.Logger) *Placer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeInForce == "" {
		timeInForce = Day
	}
	return &Placer{
		broker:      broker,
		timeInForce: timeInForce,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// Place submits deltas strictly in the given order and waits for each
// submission before the next, so sells listed first free cash before buys
// spend it. A failing order is logged and skipped; nothing is retried or
// rolled back.
func (p *Placer) Place(ctx context.Context, deltas []rebalance.DeltaOrder) []Result {
	results := make([]Result, 0, len(deltas))
	for _, delta := range deltas {
		results = append(results, p.PlaceOne(ctx, delta))
	}
	return results
}

// PlaceOne submits a notional market order for delta, falling back to whole
// shares when the asset is not fractionable.
func (p *Placer) PlaceOne(ctx context.Context, delta rebalance.DeltaOrder) Result {
	res := Result{Order: delta, Side: Buy}
	if delta.IsSell() {
		res.Side = Sell
	}
	res.Notional = TruncateCents(delta.Amount)

	log := p.logger.With(
		zap.String("symbol", delta.Symbol),
		zap.String("side", string(res.Side)),
		zap.String("amount", res.Notional.StringFixed(2)),
	)

	if res.Notional.IsZero() {
		res.Outcome = OutcomeSkipped
		log.Debug("Skipping order below one cent")
		return res
	}

	notional := res.Notional
	req := Request{
		Symbol:        delta.Symbol,
		Side:          res.Side,
		Notional:      &notional,
		TimeInForce:   p.timeInForce,
		ClientOrderID: p.newID(),
	}

	log.Info("Placing notional order", zap.String("client_order_id", req.ClientOrderID))
	submitted, err := p.broker.SubmitOrder(ctx, req)
	if err == nil {
		res.accept(OutcomeSubmitted, submitted, req.ClientOrderID)
		log.Info("Order placed", zap.String("order_id", res.OrderID))
		return res
	}

	if !IsNotFractionable(err) {
		res.fail(&SubmissionError{Symbol: delta.Symbol, Side: res.Side, Err: err})
		log.Error("Order failed", zap.Error(err))
		return res
	}

	log.Warn("Asset is not fractionable, falling back to whole shares", zap.Error(err))
	return p.placeShares(ctx, res, log)
}

func (p *Placer) placeShares(ctx context.Context, res Result, log *zap.Logger) Result {
	symbol := res.Order.Symbol

	quote, err := p.broker.LatestQuote(ctx, symbol)
	if err != nil {
		res.fail(fmt.Errorf("failed to get latest quote for %s: %w", symbol, err))
		log.Error("Fallback quote failed", zap.Error(err))
		return res
	}

	price, ok := quote.ReferencePrice()
	if !ok {
		res.fail(&QuoteUnavailableError{Symbol: symbol})
		log.Error("Fallback abandoned, no price quoted")
		return res
	}

	res.Qty = WholeShares(res.Notional, price)
	if res.Qty.IsZero() {
		res.Outcome = OutcomeSkipped
		log.Warn("Fallback skipped, amount buys less than one share", zap.String("price", price.String()))
		return res
	}

	qty := res.Qty
	req := Request{
		Symbol:        symbol,
		Side:          res.Side,
		Qty:           &qty,
		TimeInForce:   p.timeInForce,
		ClientOrderID: p.newID(),
	}

	log = log.With(zap.String("qty", qty.String()), zap.String("client_order_id", req.ClientOrderID))
	log.Info("Placing share order")

	submitted, err := p.broker.SubmitOrder(ctx, req)
	if err != nil {
		res.fail(&SubmissionError{Symbol: symbol, Side: res.Side, Err: err})
		log.Error("Share order failed", zap.Error(err))
		return res
	}

	res.accept(OutcomeFallback, submitted, req.ClientOrderID)
	log.Info("Share order placed", zap.String("order_id", res.OrderID))
	return res
}

func (r *Result) accept(outcome Outcome, submitted *Submitted, clientOrderID string) {
	r.Outcome = outcome
	r.ClientOrderID = clientOrderID
	if submitted != nil {
		r.OrderID = submitted.ID
	}
}

func (r *Result) fail(err error) {
	r.Outcome = OutcomeFailed
	r.Err = err
}
