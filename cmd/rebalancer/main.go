package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&previewCmd{}, "inspect")
	commander.Register(&tradeCmd{mode: "rebalance"}, "trade")
	commander.Register(&tradeCmd{mode: "invest"}, "trade")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
