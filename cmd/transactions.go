package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseAmount reads a decimal amount, its currency is set later to the
// account's.
func parseAmount(s string) (papertrade.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return papertrade.M(d, ""), nil
}

// parseQuantity reads a share count, empty means "all".
func parseQuantity(s string) (q papertrade.Quantity, all bool, err error) {
	if s == "" {
		return papertrade.Quantity{}, true, nil
	}
	q, err = papertrade.ParseQuantity(s)
	return q, false, err
}

type depositCmd struct {
	amount string
	memo   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the account" }
func (*depositCmd) Usage() string {
	return `deposit -a <amount> [-m <memo>]

  Adds cash to the account balance, in the account currency.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount of cash")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdDeposit, Amount: amount, Memo: c.memo})
}

type withdrawCmd struct {
	amount string
	memo   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the account" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <amount> [-m <memo>]

  Removes cash from the account balance. The balance cannot go negative.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount of cash")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdWithdraw, Amount: amount, Memo: c.memo})
}

type orderCmd struct {
	security string
	action   string
	quantity string
	memo     string
}

func (*orderCmd) Name() string     { return "order" }
func (*orderCmd) Synopsis() string { return "place an order without executing it" }
func (*orderCmd) Usage() string {
	return `order -s <security> -action <buy|sell> -q <quantity> [-m <memo>]

  Places an order at the current price. The price is frozen until the order is
  executed with the "execute" command.
`
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.action, "action", "buy", "Order side: buy or sell")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *orderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action, err := papertrade.ParseAction(c.action)
	if err != nil || c.security == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	q, err := papertrade.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdOrder, Ticker: c.security, Action: action, Quantity: q, Memo: c.memo})
}

type executeCmd struct{}

func (*executeCmd) Name() string     { return "execute" }
func (*executeCmd) Synopsis() string { return "execute all pending orders" }
func (*executeCmd) Usage() string {
	return `execute

  Executes every order that is not filled yet, in placement order, at the
  price frozen when it was placed.
`
}
func (*executeCmd) SetFlags(*flag.FlagSet) {}
func (*executeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(papertrade.Command{Type: papertrade.CmdExecute})
}

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "remove filled orders from the order list" }
func (*clearCmd) Usage() string {
	return `clear

  Removes filled orders from the order list. Positions and trades are kept.
`
}
func (*clearCmd) SetFlags(*flag.FlagSet) {}
func (*clearCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(papertrade.Command{Type: papertrade.CmdClear})
}

type buyCmd struct {
	security string
	quantity string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `buy -s <security> [-q <quantity>] [-m <memo>]

  Buys shares of a security at the current price. Without -q, buys as many
  whole shares as the balance affords.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.quantity, "q", "", "Number of shares (default: as many as affordable)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	q, all, err := parseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdBuy, Ticker: c.security, Quantity: q, All: all, Memo: c.memo})
}

type sellCmd struct {
	security string
	quantity string
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of an existing position" }
func (*sellCmd) Usage() string {
	return `sell -s <security> [-q <quantity>] [-m <memo>]

  Sells shares of a security at the current price. Without -q, sells the whole
  position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.quantity, "q", "", "Number of shares (default: the whole position)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	q, all, err := parseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdSell, Ticker: c.security, Quantity: q, All: all, Memo: c.memo})
}

type closeCmd struct {
	memo string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "sell whole positions" }
func (*closeCmd) Usage() string {
	return `close [-m <memo>] [<security>...]

  Sells the given positions entirely, or every position when none is given.
  Either all positions are closed or none is.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(papertrade.Command{Type: papertrade.CmdClose, Tickers: f.Args(), Memo: c.memo})
}

type priceCmd struct {
	security string
	price    string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "update the market price of a security" }
func (*priceCmd) Usage() string {
	return `price -s <security> -p <price>

  Records a new market price for a security. Later commands in the session
  trade and value positions at that price.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.price, "p", "", "Price per share")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := parseAmount(c.price)
	if err != nil || c.security == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(papertrade.Command{Type: papertrade.CmdPrice, Ticker: c.security, Amount: price})
}
