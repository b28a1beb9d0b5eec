// Package broker talks to Alpaca on behalf of the rebalancer.
package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rebalancer/pkg/config"
	"rebalancer/pkg/orders"
	"rebalancer/pkg/rebalance"
)

type tradingAPI interface {
	GetAccount() (*alpaca.Account, error)
	GetPositions() ([]alpaca.Position, error)
	GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error)
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
}

type quoteAPI interface {
	GetLatestQuote(symbol string, req marketdata.GetLatestQuoteRequest) (*marketdata.Quote, error)
}

// Alpaca wraps the trading and market data clients. The underlying clients
// take no context, so ctx is only checked before each call.
type Alpaca struct {
	trading tradingAPI
	quotes  quoteAPI
	logger  *zap.Logger
}

// NewAlpaca builds the clients for the active trading mode of cfg.
func NewAlpaca(cfg *config.Config, logger *zap.Logger) (*Alpaca, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds := cfg.ActiveCredentials()

	trading := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    creds.APIKey,
		APISecret: creds.APISecret,
		BaseURL:   cfg.TradingURL(),
	})

	quotes := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    creds.APIKey,
		APISecret: creds.APISecret,
	})

	return newAlpaca(trading, quotes, logger), nil
}

func newAlpaca(trading tradingAPI, quotes quoteAPI, logger *zap.Logger) *Alpaca {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Alpaca{trading: trading, quotes: quotes, logger: logger.With(zap.String("broker", "alpaca"))}
}

// Account retrieves key account information.
func (a *Alpaca) Account(ctx context.Context) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	account, err := a.trading.GetAccount()
	if err != nil {
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	return Account{
		Number:         account.AccountNumber,
		Status:         string(account.Status),
		Cash:           account.Cash,
		BuyingPower:    account.BuyingPower,
		PortfolioValue: account.PortfolioValue,
	}, nil
}

// Positions retrieves every open position.
func (a *Alpaca) Positions(ctx context.Context) ([]rebalance.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	positions, err := a.trading.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	out := make([]rebalance.Position, 0, len(positions))
	for _, p := range positions {
		out = append(out, rebalance.Position{
			Symbol:        p.Symbol,
			Qty:           p.Qty,
			CostBasis:     p.CostBasis,
			MarketValue:   value(p.MarketValue),
			AvgEntryPrice: p.AvgEntryPrice,
			CurrentPrice:  value(p.CurrentPrice),
		})
	}
	return out, nil
}

// OpenOrders retrieves the orders that have not been filled or cancelled.
func (a *Alpaca) OpenOrders(ctx context.Context) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	open, err := a.trading.GetOrders(alpaca.GetOrdersRequest{
		Status: "open",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	out := make([]Order, 0, len(open))
	for _, o := range open {
		out = append(out, Order{
			ID:         o.ID,
			Symbol:     o.Symbol,
			Side:       string(o.Side),
			Type:       string(o.Type),
			Status:     o.Status,
			Qty:        o.Qty,
			Notional:   o.Notional,
			LimitPrice: o.LimitPrice,
		})
	}
	return out, nil
}

// SubmitOrder places a market order. Alpaca's fractional rejection comes back
// wrapped in orders.ErrNotFractionable.
func (a *Alpaca) SubmitOrder(ctx context.Context, req orders.Request) (*orders.Submitted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	side := alpaca.Buy
	if req.Side == orders.Sell {
		side = alpaca.Sell
	}

	tif := alpaca.Day
	if req.TimeInForce == orders.GTC {
		tif = alpaca.GTC
	}

	order, err := a.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           req.Qty,
		Notional:      req.Notional,
		Side:          side,
		Type:          alpaca.Market,
		TimeInForce:   tif,
		ClientOrderID: req.ClientOrderID,
	})
	if err != nil {
		return nil, classify(err)
	}

	a.logger.Debug("Order accepted",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.String("status", order.Status),
	)

	return &orders.Submitted{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        order.Status,
	}, nil
}

// LatestQuote fetches the latest quote for symbol.
func (a *Alpaca) LatestQuote(ctx context.Context, symbol string) (orders.Quote, error) {
	if err := ctx.Err(); err != nil {
		return orders.Quote{}, err
	}

	quote, err := a.quotes.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return orders.Quote{}, fmt.Errorf("failed to get latest quote: %w", err)
	}
	if quote == nil {
		return orders.Quote{}, nil
	}

	return orders.Quote{
		AskPrice: decimal.NewFromFloat(quote.AskPrice),
		BidPrice: decimal.NewFromFloat(quote.BidPrice),
	}, nil
}

func classify(err error) error {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) && orders.IsNotFractionable(err) {
		return fmt.Errorf("%w: %s", orders.ErrNotFractionable, apiErr.Message)
	}
	return fmt.Errorf("failed to place order: %w", err)
}

func value(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
