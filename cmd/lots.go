package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/flowerbug/bcgt"
	"github.com/flowerbug/bcgt/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	symbol string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the open lots" }
func (*lotsCmd) Usage() string {
	return `bcgt lots [-s <symbol>]

  Lists the open lots in canonical order, with per-lot and total basis.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list lots of this symbol")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	store, err := DecodeStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.symbol != "" {
		run, err := bcgt.SelectRun(store.SplitView(), c.symbol)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		store = bcgt.NewStore(run.Lots...)
	}

	printMarkdown(renderer.LotsMarkdown(store))
	return subcommands.ExitSuccess
}
