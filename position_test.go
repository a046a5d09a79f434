package papertrade

import (
	"errors"
	"testing"
)

func TestPosition_ApplyDelta(t *testing.T) {
	testCases := []struct {
		name      string
		deltas    []Quantity
		prices    []Money
		wantQty   Quantity
		wantPrice Money
	}{
		{
			name:      "first buy sets the price",
			deltas:    []Quantity{Q(10)},
			prices:    []Money{USD(200)},
			wantQty:   Q(10),
			wantPrice: USD(200),
		},
		{
			name:      "weighted average",
			deltas:    []Quantity{Q(10), Q(30)},
			prices:    []Money{USD(100), USD(200)},
			wantQty:   Q(40),
			wantPrice: USD(175),
		},
		{
			name:      "decrease keeps the price",
			deltas:    []Quantity{Q(10), Q(-4)},
			prices:    []Money{USD(100), USD(999)},
			wantQty:   Q(6),
			wantPrice: USD(100),
		},
		{
			name:      "back to zero and buy again",
			deltas:    []Quantity{Q(10), Q(-10), Q(5)},
			prices:    []Money{USD(100), USD(0), USD(300)},
			wantQty:   Q(5),
			wantPrice: USD(300),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPosition("AAPL", "USD")
			for i, d := range tc.deltas {
				p.ApplyDelta(d, tc.prices[i])
			}
			if !p.Quantity().Equal(tc.wantQty) {
				t.Errorf("Quantity() = %v, want %v", p.Quantity(), tc.wantQty)
			}
			assertMoney(t, "Price()", p.Price(), tc.wantPrice)
		})
	}
}

func TestPosition_ApplyDeltaAtMarket(t *testing.T) {
	prices := DefaultPriceTable("USD")
	p := NewPosition("MSFT", "USD")
	if err := p.ApplyDeltaAtMarket(Q(2), prices); err != nil {
		t.Fatalf("ApplyDeltaAtMarket() error = %v", err)
	}
	assertMoney(t, "Price()", p.Price(), USD(400))

	unknown := NewPosition("TSLA", "USD")
	if err := unknown.ApplyDeltaAtMarket(Q(2), prices); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("ApplyDeltaAtMarket(TSLA) error = %v, want %v", err, ErrUnknownTicker)
	}
	if !unknown.Quantity().IsZero() {
		t.Errorf("failed ApplyDeltaAtMarket changed the quantity to %v", unknown.Quantity())
	}
}

func TestPosition_ApplyOrder(t *testing.T) {
	prices := DefaultPriceTable("USD")
	p := NewPosition("AAPL", "USD")
	p.ApplyDelta(Q(10), USD(100))

	o, err := NewOrder(prices, "AAPL", Sell, Q(6), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if err := o.Fill(Q(2)); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	// only the remaining 4 shares are applied.
	p.ApplyOrder(o)
	if !p.Quantity().Equal(Q(6)) {
		t.Errorf("Quantity() = %v, want 6", p.Quantity())
	}
	if o.Status() != Filled {
		t.Errorf("order status = %v, want filled", o.Status())
	}
}

func TestPosition_Valuation(t *testing.T) {
	prices := DefaultPriceTable("USD")
	p := NewPosition("AAPL", "USD")
	p.ApplyDelta(Q(10), USD(150))

	value, err := p.MarketValue(prices)
	if err != nil {
		t.Fatalf("MarketValue() error = %v", err)
	}
	assertMoney(t, "MarketValue()", value, USD(2000))

	pnl, err := p.UnrealizedPnL(prices)
	if err != nil {
		t.Fatalf("UnrealizedPnL() error = %v", err)
	}
	assertMoney(t, "UnrealizedPnL()", pnl, USD(500))
	assertMoney(t, "CostBasis()", p.CostBasis(), USD(1500))

	// always the live price.
	mustSetPrice(t, prices, "AAPL", USD(100))
	pnl, _ = p.UnrealizedPnL(prices)
	assertMoney(t, "UnrealizedPnL() after drop", pnl, USD(-500))

	ret, err := p.Return(prices)
	if err != nil {
		t.Fatalf("Return() error = %v", err)
	}
	if want := Percent(-33.3333); !ret.Equal(want) {
		t.Errorf("Return() = %v, want %v", ret, want)
	}

	empty := NewPosition("MSFT", "USD")
	if ret, _ := empty.Return(prices); ret != 0 {
		t.Errorf("Return() of empty position = %v, want 0", ret)
	}
}
