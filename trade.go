package papertrade

import (
	"fmt"
	"time"
)

// Trade records the closing of (part of) a position by a sell order.
type Trade struct {
	order    *Order
	ticker   string
	quantity Quantity
	entry    Money
	exit     Money
	on       time.Time
}

// OpenTrade captures a trade for a sell order.
//
// position must be the state of the position before the order is applied:
// the entry price is snapshotted from it, and the quantity closed cannot
// exceed what it held.
func OpenTrade(position Position, order *Order, now time.Time) (Trade, error) {
	if order.Action() != Sell {
		return Trade{}, fmt.Errorf("%w: %s is not a sell order", ErrInvalidTradeCapture, order)
	}
	if order.Ticker() != position.Ticker() {
		return Trade{}, fmt.Errorf("%w: order on %s cannot close a position on %s", ErrInvalidTradeCapture, order.Ticker(), position.Ticker())
	}
	closed := order.Remaining()
	if closed.GreaterThan(position.Quantity()) {
		return Trade{}, fmt.Errorf("%w: cannot close %s of %s, position is only %s", ErrInvalidTradeCapture, closed, position.Ticker(), position.Quantity())
	}
	return Trade{
		order:    order,
		ticker:   order.Ticker(),
		quantity: closed,
		entry:    position.Price(),
		exit:     order.Price(),
		on:       now,
	}, nil
}

func (t Trade) Order() *Order        { return t.order }
func (t Trade) Ticker() string       { return t.ticker }
func (t Trade) Quantity() Quantity   { return t.quantity }
func (t Trade) EntryPrice() Money    { return t.entry }
func (t Trade) ExitPrice() Money     { return t.exit }
func (t Trade) Timestamp() time.Time { return t.on }

// RealizedPnL returns (exit price − entry price) × quantity.
func (t Trade) RealizedPnL() Money {
	return t.exit.Sub(t.entry).Mul(t.quantity)
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("order", t.order.ID())
	w.Append("ticker", t.ticker)
	w.Append("quantity", t.quantity)
	w.Append("entry", t.entry)
	w.Append("exit", t.exit)
	w.Append("realized", t.RealizedPnL())
	w.Append("on", t.on)
	return w.MarshalJSON()
}
