package cmd

import (
	"flag"
	"slices"

	"github.com/etnz/papertrade"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the global flags and the commands registered on c for
// shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: make(map[string]complete.Predictor),
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = flagPredictor(f)
	})
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = flagPredictor(f)
		})
		if cmd.Name() == "close" {
			sub.Args = tickers()
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// Has reports whether a command named name is registered on c.
func Has(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		found = found || cmd.Name() == name
	})
	return found
}

func tickers() complete.Predictor {
	return predict.Set(slices.Collect(papertrade.DefaultPriceTable("USD").Tickers()))
}

func flagPredictor(f *flag.Flag) complete.Predictor {
	switch f.Name {
	case "session":
		return predict.Files("*.jsonl")
	case "prices":
		return predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml"))
	case "config":
		return predict.Or(predict.Files("*.yaml"), predict.Files("*.yml"))
	case "currency":
		return predict.Set{"USD", "EUR", "GBP", "JPY", "CHF"}
	case "log-level":
		return predict.Set{"debug", "info", "warn", "error"}
	case "action":
		return predict.Set{"buy", "sell"}
	case "s":
		return tickers()
	}
	// boolean flags take no value.
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	return predict.Something
}
