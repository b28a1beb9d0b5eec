// Package pipeline wires allocation, diffing and placement into one
// rebalance run against a brokerage.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rebalancer/pkg/allocation"
	"rebalancer/pkg/broker"
	"rebalancer/pkg/models"
	"rebalancer/pkg/orders"
	"rebalancer/pkg/rebalance"
)

// Mode picks what the target is measured against.
type Mode string

const (
	// ModeRebalance targets the whole portfolio value and sells what is
	// overweight.
	ModeRebalance Mode = "rebalance"
	// ModeCashOnly spends available cash only; nothing is sold.
	ModeCashOnly Mode = "cash"
)

// ErrDeclined is returned when the confirmation hook refuses the plan.
var ErrDeclined = errors.New("rebalance declined")

// Brokerage is everything a run reads from or sends to the broker.
type Brokerage interface {
	orders.Broker
	Account(ctx context.Context) (broker.Account, error)
	Positions(ctx context.Context) ([]rebalance.Position, error)
	OpenOrders(ctx context.Context) ([]broker.Order, error)
}

// Confirm is asked before anything is submitted.
type Confirm func(report *Report) (bool, error)

// Report is what one run saw, planned and did.
type Report struct {
	Mode       Mode
	Account    broker.Account
	Positions  []rebalance.Position
	OpenOrders []broker.Order
	TotalCash  decimal.Decimal
	Target     allocation.Target
	Plan       rebalance.Plan
	// Skipped holds deltas dropped because their symbol already has an open order.
	Skipped []rebalance.DeltaOrder
	// Withheld holds sells kept back because selling is disabled.
	Withheld []rebalance.DeltaOrder
	Results  []orders.Result
}

// Runner runs one rebalance at a time. Every broker call happens in sequence.
type Runner struct {
	broker  Brokerage
	placer  *orders.Placer
	policy  allocation.Policy
	confirm Confirm
	logger  *zap.Logger
}

// NewRunner wires a Runner. A nil confirm approves every plan and a nil logger logs nothing.
func NewRunner(b Brokerage, placer *orders.Placer, policy allocation.Policy, confirm Confirm, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{broker: b, placer: placer, policy: policy, confirm: confirm, logger: logger}
}

// Snapshot reads the account, positions and open orders.
func (r *Runner) Snapshot(ctx context.Context) (*Report, error) {
	account, err := r.broker.Account(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := r.broker.Positions(ctx)
	if err != nil {
		return nil, err
	}

	open, err := r.broker.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{Account: account, Positions: positions, OpenOrders: open}, nil
}

// Plan computes the target and deltas for doc without submitting anything.
func (r *Runner) Plan(ctx context.Context, doc *models.Document, mode Mode) (*Report, error) {
	report, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report.Mode = mode

	switch mode {
	case ModeRebalance:
		report.TotalCash = report.Account.PortfolioValue
	case ModeCashOnly:
		report.TotalCash = report.Account.Cash
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	target, err := allocation.Allocate(report.TotalCash, doc.Models, r.policy)
	if err != nil {
		return nil, fmt.Errorf("invalid allocation model: %w", err)
	}
	report.Target = target

	plan := rebalance.CashOnly(target)
	if mode == ModeRebalance {
		plan = rebalance.Diff(target, report.Positions)
		if !doc.SellEnabled {
			report.Withheld = plan.Sells
			plan.Sells = nil
			// Without sells funding them, buys spend only settled cash.
			plan = plan.CapBuys(report.Account.Cash)
		}
	}

	report.Plan, report.Skipped = plan.Filter(openSymbols(report.OpenOrders))

	r.logger.Info("Rebalance planned",
		zap.String("mode", string(mode)),
		zap.String("total", report.TotalCash.StringFixed(2)),
		zap.Int("sells", len(report.Plan.Sells)),
		zap.Int("buys", len(report.Plan.Buys)),
		zap.Int("skipped_open", len(report.Skipped)),
		zap.Int("withheld_sells", len(report.Withheld)),
	)
	return report, nil
}

// Run plans, asks for confirmation and places sells before buys.
func (r *Runner) Run(ctx context.Context, doc *models.Document, mode Mode) (*Report, error) {
	report, err := r.Plan(ctx, doc, mode)
	if err != nil {
		return nil, err
	}

	if report.Plan.IsEmpty() {
		r.logger.Info("Portfolio already on target")
		return report, nil
	}

	if r.confirm != nil {
		ok, err := r.confirm(report)
		if err != nil {
			return report, err
		}
		if !ok {
			return report, ErrDeclined
		}
	}

	report.Results = r.placer.Place(ctx, report.Plan.Orders())
	return report, nil
}

func openSymbols(open []broker.Order) []string {
	symbols := make([]string, 0, len(open))
	for _, o := range open {
		symbols = append(symbols, o.Symbol)
	}
	return symbols
}
