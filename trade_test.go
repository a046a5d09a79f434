package papertrade

import (
	"errors"
	"testing"
)

func TestOpenTrade(t *testing.T) {
	prices := DefaultPriceTable("USD")
	pos := NewPosition("AAPL", "USD")
	pos.ApplyDelta(Q(10), USD(150))

	sell := func(ticker string, qty int) *Order {
		t.Helper()
		o, err := NewOrder(prices, ticker, Sell, Q(qty), epoch)
		if err != nil {
			t.Fatalf("NewOrder() error = %v", err)
		}
		return o
	}
	buy, err := NewOrder(prices, "AAPL", Buy, Q(1), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}

	testCases := []struct {
		name    string
		order   *Order
		wantErr error
		wantPnL Money
	}{
		{name: "partial", order: sell("AAPL", 4), wantPnL: USD(200)},
		{name: "whole", order: sell("AAPL", 10), wantPnL: USD(500)},
		{name: "more than held", order: sell("AAPL", 11), wantErr: ErrInvalidTradeCapture},
		{name: "other ticker", order: sell("MSFT", 1), wantErr: ErrInvalidTradeCapture},
		{name: "buy order", order: buy, wantErr: ErrInvalidTradeCapture},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trade, err := OpenTrade(*pos, tc.order, epoch)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("OpenTrade() error = %v, want %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			assertMoney(t, "EntryPrice()", trade.EntryPrice(), USD(150))
			assertMoney(t, "ExitPrice()", trade.ExitPrice(), USD(200))
			assertMoney(t, "RealizedPnL()", trade.RealizedPnL(), tc.wantPnL)
		})
	}
}

func TestOpenTrade_Snapshot(t *testing.T) {
	prices := DefaultPriceTable("USD")
	pos := NewPosition("AAPL", "USD")
	pos.ApplyDelta(Q(10), USD(150))
	o, err := NewOrder(prices, "AAPL", Sell, Q(10), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	trade, err := OpenTrade(*pos, o, epoch)
	if err != nil {
		t.Fatalf("OpenTrade() error = %v", err)
	}
	// later changes to the position do not alter the trade.
	pos.ApplyOrder(o)
	pos.ApplyDelta(Q(1), USD(1000))
	assertMoney(t, "EntryPrice()", trade.EntryPrice(), USD(150))
	if !trade.Quantity().Equal(Q(10)) {
		t.Errorf("Quantity() = %v, want 10", trade.Quantity())
	}
}
