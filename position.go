package papertrade

import "fmt"

// Position is the holding in one ticker: a quantity and its weighted-average
// entry price.
//
// Position does not validate decreases: the Account checks that a sale never
// drives the quantity below zero before calling ApplyDelta or ApplyOrder.
type Position struct {
	ticker   string
	quantity Quantity
	price    Money
}

// NewPosition creates an empty position.
func NewPosition(ticker, currency string) *Position {
	return &Position{ticker: ticker, price: M(0, currency)}
}

func (p *Position) Ticker() string     { return p.ticker }
func (p *Position) Quantity() Quantity { return p.quantity }

// Price returns the weighted-average entry price.
func (p *Position) Price() Money { return p.price }

// CostBasis returns quantity × average price.
func (p *Position) CostBasis() Money { return p.price.Mul(p.quantity) }

// ApplyDelta adds delta to the quantity. On an increase the average price is
// recomputed using price for the added shares; a decrease leaves it unchanged.
func (p *Position) ApplyDelta(delta Quantity, price Money) {
	if delta.IsPositive() {
		total := p.quantity.Add(delta)
		p.price = p.price.Mul(p.quantity).Add(price.Mul(delta)).Div(total).exact()
	}
	p.quantity = p.quantity.Add(delta)
}

// ApplyDeltaAtMarket is ApplyDelta priced with the oracle's current price.
func (p *Position) ApplyDeltaAtMarket(delta Quantity, oracle PriceOracle) error {
	price, err := oracle.Price(p.ticker)
	if err != nil {
		return err
	}
	p.ApplyDelta(delta, price)
	return nil
}

// ApplyOrder applies the remaining quantity of order at its frozen price, then
// marks the order as filled.
func (p *Position) ApplyOrder(order *Order) {
	p.ApplyDelta(order.Remaining().Mul(order.Action().Sign()), order.Price())
	order.FillAll()
}

// MarketValue returns quantity × current price.
func (p *Position) MarketValue(oracle PriceOracle) (Money, error) {
	price, err := oracle.Price(p.ticker)
	if err != nil {
		return Money{}, fmt.Errorf("cannot value %s: %w", p.ticker, err)
	}
	return price.Mul(p.quantity), nil
}

// UnrealizedPnL returns quantity × (current price − average price).
func (p *Position) UnrealizedPnL(oracle PriceOracle) (Money, error) {
	price, err := oracle.Price(p.ticker)
	if err != nil {
		return Money{}, fmt.Errorf("cannot value %s: %w", p.ticker, err)
	}
	return price.Sub(p.price).Mul(p.quantity), nil
}

// Return returns the unrealized P&L as a percentage of the cost basis, zero
// for an empty position.
func (p *Position) Return(oracle PriceOracle) (Percent, error) {
	pnl, err := p.UnrealizedPnL(oracle)
	if err != nil {
		return 0, err
	}
	return ratio(pnl, p.CostBasis()), nil
}

func (p *Position) String() string {
	return fmt.Sprintf("<%s %s @ %s>", p.ticker, p.quantity, p.price)
}

// MarshalJSON implements the json.Marshaler interface for Position.
func (p *Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", p.ticker)
	w.Append("quantity", p.quantity)
	w.Append("price", p.price)
	return w.MarshalJSON()
}
