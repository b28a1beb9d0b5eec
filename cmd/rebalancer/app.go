package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"rebalancer/pkg/allocation"
	"rebalancer/pkg/broker"
	"rebalancer/pkg/config"
	"rebalancer/pkg/logger"
	"rebalancer/pkg/models"
	"rebalancer/pkg/orders"
	"rebalancer/pkg/pipeline"
	"rebalancer/pkg/report"
)

// commonFlags are shared by every subcommand that reads a model file.
type commonFlags struct {
	modelsPath string
	policy     string
}

func (c *commonFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.modelsPath, "models", "", "Path to the allocation model file (default $MODELS_PATH or models.json)")
	f.StringVar(&c.policy, "policy", "", "Percentage validation: strict (levels total 100) or lenient (levels total at most 100)")
}

// app is everything one command invocation needs.
type app struct {
	cfg    *config.Config
	doc    *models.Document
	logger *zap.Logger
	runner *pipeline.Runner
}

// setup loads the configuration and model file, then builds the broker
// clients for the trading mode they resolve to.
func (c *commonFlags) setup(confirm pipeline.Confirm) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.modelsPath != "" {
		cfg.ModelsPath = c.modelsPath
	}
	if c.policy != "" {
		if cfg.Policy, err = allocation.ParsePolicy(c.policy); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.LogEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	doc, err := models.Load(cfg.ModelsPath)
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithDocument(doc)

	alpaca, err := broker.NewAlpaca(cfg, log)
	if err != nil {
		return nil, err
	}

	placer := orders.NewPlacer(alpaca, cfg.TimeInForce, log)
	log.Info("Configured",
		zap.String("mode", cfg.Mode()),
		zap.String("models", cfg.ModelsPath),
		zap.String("policy", string(cfg.Policy)),
	)

	return &app{
		cfg:    cfg,
		doc:    doc,
		logger: log,
		runner: pipeline.NewRunner(alpaca, placer, cfg.Policy, confirm, log),
	}, nil
}

func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func printSnapshot(r *pipeline.Report, mode string) {
	printMarkdown(report.AccountMarkdown(r.Account, mode) + "\n" +
		report.PositionsMarkdown(r.Positions) + "\n" +
		report.OpenOrdersMarkdown(r.OpenOrders))
}

// promptConfirm shows the plan and asks for a yes on in.
func promptConfirm(in io.Reader, out io.Writer) pipeline.Confirm {
	reader := bufio.NewReader(in)
	return func(r *pipeline.Report) (bool, error) {
		printMarkdown(report.PlanMarkdown(r))
		fmt.Fprint(out, "Submit these orders? [y/N] ")
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		return isYes(answer), nil
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
