package papertrade

import (
	"testing"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// epoch is the fixed clock of test accounts.
var epoch = time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return epoch }

// mustAccount creates an account on the demo price table, or fails the test.
func mustAccount(t *testing.T, balance Money) (*Account, *PriceTable) {
	t.Helper()
	prices := DefaultPriceTable("USD")
	acc, err := NewAccount(balance, prices, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewAccount(%v) error = %v", balance, err)
	}
	return acc, prices
}

func mustSetPrice(t *testing.T, prices *PriceTable, ticker string, price Money) {
	t.Helper()
	if err := prices.Set(ticker, price); err != nil {
		t.Fatalf("Set(%s, %v) error = %v", ticker, price, err)
	}
}

func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertValid(t *testing.T, acc *Account) {
	t.Helper()
	if err := acc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
