package papertrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order is a request to buy or sell a quantity of a ticker.
//
// The price is read from the oracle when the order is created and frozen for
// the life of the order: size and cash movements always use that price, even
// if the market moved before execution.
type Order struct {
	id       string
	ticker   string
	action   Action
	quantity Quantity
	price    Money
	filled   Quantity
	created  time.Time
}

// NewOrder creates an unfilled order priced with the oracle's current price.
func NewOrder(oracle PriceOracle, ticker string, action Action, quantity Quantity, now time.Time) (*Order, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("can't make an order for a negative amount %s: %w", quantity, ErrInvalidQuantity)
	}
	if !quantity.IsWhole() {
		return nil, fmt.Errorf("can't make an order for a fraction of a share %s: %w", quantity, ErrInvalidQuantity)
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}
	price, err := oracle.Price(ticker)
	if err != nil {
		return nil, err
	}
	return &Order{
		id:       uuid.NewString(),
		ticker:   ticker,
		action:   action,
		quantity: quantity,
		price:    price,
		created:  now,
	}, nil
}

func (o *Order) ID() string           { return o.id }
func (o *Order) Ticker() string       { return o.ticker }
func (o *Order) Action() Action       { return o.action }
func (o *Order) Quantity() Quantity   { return o.quantity }
func (o *Order) Price() Money         { return o.price }
func (o *Order) Filled() Quantity     { return o.filled }
func (o *Order) CreatedAt() time.Time { return o.created }

// Remaining returns the quantity not filled yet.
func (o *Order) Remaining() Quantity { return o.quantity.Sub(o.filled) }

// Size returns quantity × price.
func (o *Order) Size() Money { return o.price.Mul(o.quantity) }

// SignedSize returns Size, negated for a sell.
func (o *Order) SignedSize() Money { return o.price.Mul(o.quantity.Mul(o.action.Sign())) }

// Status is derived from the filled quantity.
func (o *Order) Status() OrderStatus {
	switch {
	case o.filled.Equal(o.quantity):
		return Filled
	case o.filled.IsPositive():
		return PartiallyFilled
	default:
		return Unfilled
	}
}

// Fill marks amount more shares as filled.
func (o *Order) Fill(amount Quantity) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount to fill cannot be negative, got %s: %w", amount, ErrInvalidFillAmount)
	}
	if amount.GreaterThan(o.Remaining()) {
		return fmt.Errorf("cannot fill %s, only %s remaining: %w", amount, o.Remaining(), ErrInvalidFillAmount)
	}
	if !amount.IsWhole() {
		return fmt.Errorf("cannot fill a fraction of a share %s: %w", amount, ErrInvalidFillAmount)
	}
	o.filled = o.filled.Add(amount)
	return nil
}

// FillAll fills the remaining quantity.
func (o *Order) FillAll() { o.filled = o.quantity }

func (o *Order) String() string {
	return fmt.Sprintf("<%s %s @ %s (%s/%s filled)>", o.action, o.ticker, o.price, o.filled, o.quantity)
}

// MarshalJSON implements the json.Marshaler interface for Order.
func (o *Order) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", o.id)
	w.Append("ticker", o.ticker)
	w.Append("action", o.action)
	w.Append("quantity", o.quantity)
	w.Append("price", o.price)
	w.Append("filled", o.filled)
	w.Append("status", o.Status().String())
	w.Append("created", o.created)
	return w.MarshalJSON()
}
