package papertrade

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// PriceOracle gives the current price of a ticker.
//
// Implementations must return an error wrapping ErrUnknownTicker when the
// ticker is unknown. The Account never caches prices: every valuation asks the
// oracle again.
type PriceOracle interface {
	Price(ticker string) (Money, error)
}

// PriceTable is a static, in-memory PriceOracle.
type PriceTable struct {
	cur    string
	prices map[string]Money
}

// NewPriceTable creates an empty price table quoting in currency.
func NewPriceTable(currency string) *PriceTable {
	return &PriceTable{
		cur:    currency,
		prices: make(map[string]Money),
	}
}

// DefaultPriceTable returns the demo price list: AAPL 200, GOOGL 200, MSFT 400.
func DefaultPriceTable(currency string) *PriceTable {
	t := NewPriceTable(currency)
	t.prices["AAPL"] = M(200, currency)
	t.prices["GOOGL"] = M(200, currency)
	t.prices["MSFT"] = M(400, currency)
	return t
}

// Currency returns the quote currency of the table.
func (t *PriceTable) Currency() string { return t.cur }

// Set updates the price of ticker, adding it if needed.
func (t *PriceTable) Set(ticker string, price Money) error {
	if ticker == "" {
		return fmt.Errorf("%w: empty ticker", ErrUnknownTicker)
	}
	if price.IsNegative() {
		return fmt.Errorf("price of %s is %s: %w", ticker, price, ErrNegativeAmount)
	}
	if price.Currency() == "" {
		price = M(price.value, t.cur)
	} else if price.Currency() != t.cur {
		return fmt.Errorf("price of %s in %s, table quotes in %s: %w", ticker, price.Currency(), t.cur, ErrCurrencyMismatch)
	}
	t.prices[ticker] = price
	return nil
}

// Price implements PriceOracle.
func (t *PriceTable) Price(ticker string) (Money, error) {
	p, ok := t.prices[ticker]
	if !ok {
		return Money{}, fmt.Errorf("stock with ticker %q does not exist: %w", ticker, ErrUnknownTicker)
	}
	return p, nil
}

// Tickers iterates over the known tickers in alphabetical order.
func (t *PriceTable) Tickers() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(t.prices)))
}

// Clone returns an independent copy of the table.
func (t *PriceTable) Clone() *PriceTable {
	return &PriceTable{cur: t.cur, prices: maps.Clone(t.prices)}
}

// Len returns the number of tickers in the table.
func (t *PriceTable) Len() int { return len(t.prices) }
