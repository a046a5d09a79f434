package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/technicals"
	"github.com/google/subcommands"
)

type statementCmd struct {
	title string
	raw   bool
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "display the account at current prices" }
func (*statementCmd) Usage() string {
	return `statement [-title <title>] [-raw]

  Replays the session and displays the cash balance, the equity, the profit
  and loss, the positions, the orders and the trades.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "Account Statement", "Title of the statement")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal")
}

func (c *statementCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.log.Sync()

	acc, err := a.account()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	s, err := renderer.NewStatement(acc, c.title)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderStatement(s)
	if c.raw {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

type jsonCmd struct{}

func (*jsonCmd) Name() string     { return "json" }
func (*jsonCmd) Synopsis() string { return "print the account as JSON" }
func (*jsonCmd) Usage() string {
	return `json

  Replays the session and prints the balance, positions, orders and trades as
  an indented JSON document.
`
}
func (*jsonCmd) SetFlags(*flag.FlagSet) {}

func (*jsonCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.log.Sync()

	acc, err := a.account()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	data, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(data))
	return subcommands.ExitSuccess
}

type smaCmd struct {
	periods string
	raw     bool
}

func (*smaCmd) Name() string     { return "sma" }
func (*smaCmd) Synopsis() string { return "compute simple moving averages of a price series" }
func (*smaCmd) Usage() string {
	return `sma [-n <period>,...] [-raw] [<value>...]

  Computes the simple moving averages of a series of values, one column per
  period. Values are read from the arguments, or from stdin when there are
  none.

Usage Examples:
$ ptrade sma -n 2,3 200 210 190 220
`
}

func (c *smaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.periods, "n", strconv.Itoa(technicals.DefaultPeriod), "Comma separated list of periods")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal")
}

func (c *smaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	periods, err := parsePeriods(c.periods)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	fields := f.Args()
	if len(fields) == 0 {
		fields, err = readFields(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	values, err := parseValues(fields)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	m, err := renderer.NewMovingAverages(values, periods...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	md := renderer.RenderMovingAverages(m)
	if c.raw {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

// parsePeriods parses a comma separated list of window sizes.
func parsePeriods(s string) ([]int, error) {
	var periods []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid period %q: %w", p, err)
		}
		periods = append(periods, n)
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("at least one period is required")
	}
	return periods, nil
}

func parseValues(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))
	for _, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", s, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// readFields reads whitespace separated words from r.
func readFields(r io.Reader) ([]string, error) {
	var fields []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		fields = append(fields, scanner.Text())
	}
	return fields, scanner.Err()
}
