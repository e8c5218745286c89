package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/flowerbug/bcgt/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op except when invoked by the completion hook.
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"buy":     {Flags: map[string]complete.Predictor{"s": predict.Nothing, "q": predict.Nothing, "p": predict.Nothing, "d": predict.Nothing, "t": predict.Nothing}},
			"sell":    {Flags: map[string]complete.Predictor{"s": predict.Nothing, "q": predict.Nothing, "p": predict.Nothing, "f": predict.Nothing, "d": predict.Nothing, "o": predict.Set{"fifo", "lifo"}}},
			"split":   {Flags: map[string]complete.Predictor{"s": predict.Nothing, "n": predict.Nothing, "m": predict.Nothing, "d": predict.Nothing}},
			"lots":    {Flags: map[string]complete.Predictor{"s": predict.Nothing}},
			"session": {},
			"export":  {Flags: map[string]complete.Predictor{"lots": predict.Files("*.csv"), "accounts": predict.Files("*.csv")}},
			"help":    {},
		},
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"lots-file":   predict.Files("*.jsonl"),
			"ledger-file": predict.Files("*.bc"),
		},
	}
	completer.Complete("bcgt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
