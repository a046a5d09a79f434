package papertrade

import (
	"errors"
	"testing"
)

func TestNewOrder(t *testing.T) {
	prices := DefaultPriceTable("USD")
	o, err := NewOrder(prices, "MSFT", Sell, Q(3), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if o.ID() == "" {
		t.Error("ID() is empty")
	}
	if o.Status() != Unfilled {
		t.Errorf("Status() = %v, want unfilled", o.Status())
	}
	if !o.CreatedAt().Equal(epoch) {
		t.Errorf("CreatedAt() = %v, want %v", o.CreatedAt(), epoch)
	}
	assertMoney(t, "Price()", o.Price(), USD(400))
	assertMoney(t, "Size()", o.Size(), USD(1200))
	assertMoney(t, "SignedSize()", o.SignedSize(), USD(-1200))

	// the price is frozen at creation.
	mustSetPrice(t, prices, "MSFT", USD(1))
	assertMoney(t, "Price() after market move", o.Price(), USD(400))

	other, err := NewOrder(prices, "MSFT", Sell, Q(3), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if other.ID() == o.ID() {
		t.Errorf("two orders share the ID %q", o.ID())
	}
}

func TestOrder_Fill(t *testing.T) {
	o, err := NewOrder(DefaultPriceTable("USD"), "AAPL", Buy, Q(10), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}

	steps := []struct {
		amount     Quantity
		wantErr    error
		wantFilled Quantity
		wantStatus OrderStatus
	}{
		{Q(-1), ErrInvalidFillAmount, Q(0), Unfilled},
		{Q(0), nil, Q(0), Unfilled},
		{Q(4), nil, Q(4), PartiallyFilled},
		{Q(7), ErrInvalidFillAmount, Q(4), PartiallyFilled},
		{Q(0.5), ErrInvalidFillAmount, Q(4), PartiallyFilled},
		{Q(6), nil, Q(10), Filled},
		{Q(1), ErrInvalidFillAmount, Q(10), Filled},
	}
	for i, s := range steps {
		err := o.Fill(s.amount)
		if !errors.Is(err, s.wantErr) {
			t.Errorf("step %d: Fill(%v) error = %v, want %v", i, s.amount, err, s.wantErr)
		}
		if !o.Filled().Equal(s.wantFilled) {
			t.Errorf("step %d: Filled() = %v, want %v", i, o.Filled(), s.wantFilled)
		}
		if o.Status() != s.wantStatus {
			t.Errorf("step %d: Status() = %v, want %v", i, o.Status(), s.wantStatus)
		}
		if !o.Remaining().Equal(Q(10).Sub(s.wantFilled)) {
			t.Errorf("step %d: Remaining() = %v", i, o.Remaining())
		}
	}
}

func TestOrder_FillAll(t *testing.T) {
	o, err := NewOrder(DefaultPriceTable("USD"), "AAPL", Buy, Q(10), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	o.FillAll()
	if o.Status() != Filled || !o.Remaining().IsZero() {
		t.Errorf("after FillAll: status %v, remaining %v", o.Status(), o.Remaining())
	}
}

func TestOrder_ZeroQuantity(t *testing.T) {
	o, err := NewOrder(DefaultPriceTable("USD"), "AAPL", Buy, Q(0), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	// nothing to fill: an empty order is born filled.
	if o.Status() != Filled {
		t.Errorf("Status() = %v, want filled", o.Status())
	}
}

func TestOrder_String(t *testing.T) {
	o, err := NewOrder(DefaultPriceTable("USD"), "AAPL", Buy, Q(10), epoch)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if err := o.Fill(Q(3)); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	want := "<BUY AAPL @ $200.00 (3/10 filled)>"
	if got := o.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseAction(t *testing.T) {
	testCases := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"buy", Buy, false},
		{"SELL", Sell, false},
		{"Sell", Sell, false},
		{"short", 0, true},
	}
	for _, tc := range testCases {
		got, err := ParseAction(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseAction(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
