package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"rebalancer/pkg/pipeline"
	"rebalancer/pkg/report"
)

// previewCmd shows the account and what a run would do, without trading.
type previewCmd struct {
	commonFlags
	rebalance bool
	json      bool
}

func (*previewCmd) Name() string { return "preview" }
func (*previewCmd) Synopsis() string {
	return "show account, positions and the orders a run would place"
}
func (*previewCmd) Usage() string {
	return `rebalancer preview [-models <file>] [-policy strict|lenient] [-rebalance] [-json]

  Prints the account summary, current positions, open orders and the target
  allocation. By default the available cash is distributed; with -rebalance
  the whole portfolio value is. No order is submitted.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.register(f)
	f.BoolVar(&c.rebalance, "rebalance", false, "preview a full rebalance instead of investing available cash")
	f.BoolVar(&c.json, "json", false, "print the target and plan as JSON")
}

func (c *previewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.setup(nil)
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	defer a.logger.Sync()

	mode := pipeline.ModeCashOnly
	if c.rebalance {
		mode = pipeline.ModeRebalance
	}

	r, err := a.runner.Plan(ctx, a.doc, mode)
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}

	if c.json {
		out, err := report.PreviewJSON(r)
		if err != nil {
			fail("Error: %v", err)
			return subcommands.ExitFailure
		}
		fmt.Print(string(out))
		return subcommands.ExitSuccess
	}

	printSnapshot(r, a.cfg.Mode())
	printMarkdown(report.TargetMarkdown(r.Target) + "\n" + report.PlanMarkdown(r))
	return subcommands.ExitSuccess
}
