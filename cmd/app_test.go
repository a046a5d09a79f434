package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/papertrade"
)

func testApp(t *testing.T, cfg Config) *app {
	t.Helper()
	if cfg.Session == "" {
		cfg.Session = filepath.Join(t.TempDir(), "session.jsonl")
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Balance == "" {
		cfg.Balance = "1000"
	}
	cfg.LogLevel = "error"
	cfg.PriceSelector = "$"
	a, err := newAppFromConfig(&cfg)
	if err != nil {
		t.Fatalf("newAppFromConfig() error = %v", err)
	}
	return a
}

func sessionLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestApp_Record(t *testing.T) {
	a := testApp(t, Config{})

	acc, err := a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "AAPL", Quantity: papertrade.Q(2)})
	if err != nil {
		t.Fatalf("record(buy) error = %v", err)
	}
	if got, want := acc.Balance(), papertrade.M(600, "USD"); !got.Equal(want) {
		t.Errorf("Balance() = %v, want %v", got, want)
	}

	// a command that does not apply is not recorded.
	_, err = a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "AAPL", Quantity: papertrade.Q(10)})
	if !errors.Is(err, papertrade.ErrInsufficientFunds) {
		t.Errorf("record(buy too much) error = %v, want %v", err, papertrade.ErrInsufficientFunds)
	}
	if lines := sessionLines(t, a.cfg.Session); len(lines) != 1 {
		t.Errorf("session has %d lines, want 1: %v", len(lines), lines)
	}

	if _, err := a.record(papertrade.Command{Type: papertrade.CmdPrice, Ticker: "AAPL", Amount: papertrade.M(300, "USD")}); err != nil {
		t.Fatalf("record(price) error = %v", err)
	}

	// replays always start from the configured prices.
	if _, err := a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "GOOGL", Quantity: papertrade.Q(1)}); err != nil {
		t.Fatalf("record(buy GOOGL) error = %v", err)
	}

	// a new invocation replays the price update too.
	fresh := testApp(t, *a.cfg)
	acc, err = fresh.account()
	if err != nil {
		t.Fatalf("account() error = %v", err)
	}
	equity, err := acc.Equity()
	if err != nil {
		t.Fatal(err)
	}
	if want := papertrade.M(1200, "USD"); !equity.Equal(want) {
		t.Errorf("Equity() = %v, want %v", equity, want)
	}
}

func TestApp_EmptySession(t *testing.T) {
	a := testApp(t, Config{Balance: "250"})
	acc, err := a.account()
	if err != nil {
		t.Fatalf("account() error = %v", err)
	}
	if got, want := acc.Balance(), papertrade.M(250, "USD"); !got.Equal(want) {
		t.Errorf("Balance() = %v, want %v", got, want)
	}
}

func TestApp_PriceFile(t *testing.T) {
	dir := t.TempDir()
	prices := filepath.Join(dir, "prices.yaml")
	if err := os.WriteFile(prices, []byte("prices:\n  NVDA: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := testApp(t, Config{Prices: prices})
	if _, err := a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "NVDA", All: true}); err != nil {
		t.Fatalf("record(buy max) error = %v", err)
	}
	acc, err := a.account()
	if err != nil {
		t.Fatal(err)
	}
	pos, ok := acc.Position("NVDA")
	if !ok || !pos.Quantity().Equal(papertrade.Q(10)) {
		t.Errorf("Position(NVDA) = %v, %v, want 10 shares", pos, ok)
	}
	// the built-in tickers are not in the file.
	if _, err := a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "AAPL", Quantity: papertrade.Q(1)}); !errors.Is(err, papertrade.ErrUnknownTicker) {
		t.Errorf("record(buy AAPL) error = %v, want %v", err, papertrade.ErrUnknownTicker)
	}
}

func TestApp_CorruptSession(t *testing.T) {
	a := testApp(t, Config{})
	if err := os.WriteFile(a.cfg.Session, []byte("{\"command\":\"deposit\",\"amount\":\"1\"}\nnot json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := a.account()
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("account() error = %v, want a line 2 error", err)
	}
}

func TestApp_RecordSubCentPrice(t *testing.T) {
	a := testApp(t, Config{})
	if _, err := a.record(papertrade.Command{Type: papertrade.CmdPrice, Ticker: "PENNY", Amount: papertrade.M(0.125, "USD")}); err != nil {
		t.Fatalf("record(price) error = %v", err)
	}
	if _, err := a.record(papertrade.Command{Type: papertrade.CmdBuy, Ticker: "PENNY", Quantity: papertrade.Q(8000)}); err != nil {
		t.Fatalf("record(buy) error = %v", err)
	}

	// the next invocation replays the recorded price, not a rounded one.
	acc, err := testApp(t, *a.cfg).account()
	if err != nil {
		t.Fatalf("account() error = %v", err)
	}
	if got, want := acc.Balance(), papertrade.M(0, "USD"); !got.Equal(want) {
		t.Errorf("Balance() = %v, want %v", got, want)
	}
}
