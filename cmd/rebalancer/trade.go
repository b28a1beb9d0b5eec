package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/google/subcommands"

	"rebalancer/pkg/orders"
	"rebalancer/pkg/pipeline"
	"rebalancer/pkg/report"
)

// tradeCmd places orders. "rebalance" targets the whole portfolio value and
// may sell; "invest" spends available cash only.
type tradeCmd struct {
	commonFlags
	mode string
	yes  bool
}

func (c *tradeCmd) Name() string { return c.mode }

func (c *tradeCmd) Synopsis() string {
	if c.mode == "invest" {
		return "buy toward the target allocation with available cash"
	}
	return "sell and buy to move the whole portfolio to the target allocation"
}

func (c *tradeCmd) Usage() string {
	return "rebalancer " + c.mode + ` [-models <file>] [-policy strict|lenient] [-y]

  Computes the orders, shows them and asks for confirmation before
  submitting. Sells are always submitted before buys. Symbols with an
  order already open are left alone.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.register(f)
	f.BoolVar(&c.yes, "y", false, "submit without asking for confirmation")
}

func (c *tradeCmd) pipelineMode() pipeline.Mode {
	if c.mode == "invest" {
		return pipeline.ModeCashOnly
	}
	return pipeline.ModeRebalance
}

func (c *tradeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	confirm := promptConfirm(os.Stdin, os.Stdout)
	if c.yes {
		confirm = nil
	}

	a, err := c.setup(confirm)
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	defer a.logger.Sync()

	r, err := a.runner.Run(ctx, a.doc, c.pipelineMode())
	if errors.Is(err, pipeline.ErrDeclined) {
		fail("Cancelled, no order submitted.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}

	if len(r.Results) == 0 {
		printMarkdown(report.PlanMarkdown(r))
		return subcommands.ExitSuccess
	}

	printMarkdown(report.ResultsMarkdown(r.Results))
	for _, res := range r.Results {
		if res.Outcome == orders.OutcomeFailed {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
