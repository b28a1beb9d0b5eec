// Package report renders account state and rebalance plans as Markdown.
package report

import (
	"fmt"
	"strings"

	"rebalancer/pkg/allocation"
	"rebalancer/pkg/broker"
	"rebalancer/pkg/orders"
	"rebalancer/pkg/pipeline"
	"rebalancer/pkg/rebalance"
)

// AccountMarkdown renders the account summary.
func AccountMarkdown(a broker.Account, mode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Account %s (%s)\n\n", a.Number, mode)
	fmt.Fprintf(&b, "- Portfolio value: %s\n", Dollars(a.PortfolioValue))
	fmt.Fprintf(&b, "- Available cash: %s\n", Dollars(a.Cash))
	fmt.Fprintf(&b, "- Buying power: %s\n", Dollars(a.BuyingPower))
	return b.String()
}

// PositionsMarkdown renders the current positions with their P&L.
func PositionsMarkdown(positions []rebalance.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Positions (%d)\n\n", len(positions))
	if len(positions) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Invested | Entry Price | Current Price | P&L | P&L % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			p.Symbol,
			p.Qty.String(),
			Dollars(p.CostBasis),
			Dollars(p.AvgEntryPrice),
			Dollars(p.CurrentPrice),
			Dollars(p.PnL()),
			Percent(p.PnLPercent()),
		)
	}
	return b.String()
}

// OpenOrdersMarkdown renders the orders still open at the broker.
func OpenOrdersMarkdown(open []broker.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Open orders (%d)\n\n", len(open))
	if len(open) == 0 {
		fmt.Fprintln(&b, "No open orders.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Notional | Type | Side | Limit Price | Status |")
	fmt.Fprintln(&b, "|:---|---:|---:|:---|:---|---:|:---|")
	for _, o := range open {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			o.Symbol, optional(o.Qty), optional(o.Notional), o.Type, o.Side, optional(o.LimitPrice), o.Status)
	}
	return b.String()
}

// TargetMarkdown renders the flattened target allocation.
func TargetMarkdown(target allocation.Target) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Target allocation (%s)\n\n", Dollars(target.Total()))
	fmt.Fprintln(&b, "| Symbol | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, a := range target {
		fmt.Fprintf(&b, "| %s | %s |\n", a.Symbol, Dollars(a.Amount))
	}
	return b.String()
}

// PlanMarkdown renders the deltas about to be placed and those left out.
func PlanMarkdown(r *pipeline.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Orders to place (%s on %s)\n\n", r.Mode, Dollars(r.TotalCash))
	if r.Plan.IsEmpty() {
		fmt.Fprintln(&b, "Nothing to trade.")
	} else {
		fmt.Fprintln(&b, "| Side | Symbol | Amount |")
		fmt.Fprintln(&b, "|:---|:---|---:|")
		for _, o := range r.Plan.Orders() {
			side := orders.Buy
			if o.IsSell() {
				side = orders.Sell
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", side, o.Symbol, Dollars(orders.TruncateCents(o.Amount)))
		}
	}

	deltaList(&b, "Skipped, order already open", r.Skipped)
	deltaList(&b, "Withheld, selling disabled", r.Withheld)
	return b.String()
}

// ResultsMarkdown renders the outcome of every placed delta.
func ResultsMarkdown(results []orders.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Results (%d)\n\n", len(results))
	fmt.Fprintln(&b, "| Side | Symbol | Amount | Shares | Outcome | Detail |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|:---|")
	for _, r := range results {
		shares := "-"
		if !r.Qty.IsZero() {
			shares = r.Qty.String()
		}
		detail := r.OrderID
		if r.Err != nil {
			detail = strings.ReplaceAll(r.Err.Error(), "|", "/")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Side, r.Order.Symbol, Dollars(r.Notional), shares, r.Outcome, detail)
	}
	return b.String()
}

func deltaList(b *strings.Builder, title string, deltas []rebalance.DeltaOrder) {
	if len(deltas) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n\n", title)
	for _, o := range deltas {
		fmt.Fprintf(b, "- %s %s\n", o.Symbol, Dollars(o.Amount))
	}
}
