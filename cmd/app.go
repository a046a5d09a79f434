// Package cmd implements the CLI application to trade on a paper account.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/papertrade"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&depositCmd{}, "session")
	c.Register(&withdrawCmd{}, "session")
	c.Register(&orderCmd{}, "session")
	c.Register(&executeCmd{}, "session")
	c.Register(&clearCmd{}, "session")
	c.Register(&buyCmd{}, "session")
	c.Register(&sellCmd{}, "session")
	c.Register(&closeCmd{}, "session")
	c.Register(&priceCmd{}, "session")

	c.Register(&statementCmd{}, "reports")
	c.Register(&jsonCmd{}, "reports")
	c.Register(&smaCmd{}, "reports")
}

// app is what every command works with.
type app struct {
	cfg    *Config
	log    *zap.Logger
	prices *papertrade.PriceTable
}

// newApp resolves the configuration from the global flags.
func newApp() (*app, error) {
	cfg, err := loadConfig(flag.CommandLine)
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(cfg)
}

func newAppFromConfig(cfg *Config) (*app, error) {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	prices := papertrade.DefaultPriceTable(cfg.Currency)
	if cfg.Prices != "" {
		prices, err = papertrade.OpenPriceTable(cfg.Prices, cfg.PriceSelector, cfg.Currency)
		if err != nil {
			return nil, err
		}
	}
	return &app{cfg: cfg, log: log, prices: prices}, nil
}

// decodeSession reads the session script, a missing file is an empty session.
func (a *app) decodeSession() (*papertrade.Session, error) {
	f, err := os.Open(a.cfg.Session)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Info("session does not exist, starting an empty one", zap.String("session", a.cfg.Session))
		return papertrade.NewSession(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := papertrade.DecodeSession(f)
	if err != nil {
		return nil, fmt.Errorf("invalid session %q: %w", a.cfg.Session, err)
	}
	return s, nil
}

// replay rebuilds the account from a session script, starting from the
// configured prices.
func (a *app) replay(s *papertrade.Session) (*papertrade.Account, error) {
	balance, err := a.cfg.InitialBalance()
	if err != nil {
		return nil, err
	}
	prices := a.prices.Clone()
	acc, err := papertrade.NewAccount(balance, prices, papertrade.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if err := s.Replay(acc, prices); err != nil {
		return nil, fmt.Errorf("cannot replay session %q: %w", a.cfg.Session, err)
	}
	return acc, nil
}

// account rebuilds the account from the session file.
func (a *app) account() (*papertrade.Account, error) {
	s, err := a.decodeSession()
	if err != nil {
		return nil, err
	}
	return a.replay(s)
}

// record checks that c applies on top of the session, then appends it to the
// session file.
func (a *app) record(c papertrade.Command) (*papertrade.Account, error) {
	s, err := a.decodeSession()
	if err != nil {
		return nil, err
	}
	s.Append(c)
	acc, err := a.replay(s)
	if err != nil {
		return nil, err
	}

	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(a.cfg.Session, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening session file %q: %w", a.cfg.Session, err)
	}
	defer f.Close()

	if err := papertrade.EncodeCommand(f, c); err != nil {
		return nil, fmt.Errorf("error writing to session file %q: %w", a.cfg.Session, err)
	}
	return acc, nil
}

// run records c and prints the account summary.
func run(c papertrade.Command) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.log.Sync()

	// amounts on the command line are in the account currency.
	if c.Amount.Currency() == "" {
		c.Amount = papertrade.M(c.Amount.Decimal(), a.cfg.Currency)
	}
	acc, err := a.record(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	equity, err := acc.Equity()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended %s to %s\n", c.Type, a.cfg.Session)
	fmt.Printf("Balance: %s  Equity: %s\n", acc.Balance(), equity)
	return subcommands.ExitSuccess
}
