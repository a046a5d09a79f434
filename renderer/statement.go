package renderer

import (
	"fmt"

	"github.com/etnz/papertrade"
)

// Statement is the state of an account at current prices, ready for rendering.
// Numbers keep their exact types so that templates can use their renderers
// (SignedString etc.).
type Statement struct {
	Title       string           `json:"title"`
	Currency    string           `json:"currency"`
	Cash        papertrade.Money `json:"cash"`
	MarketValue papertrade.Money `json:"marketValue"`
	Equity      papertrade.Money `json:"equity"`
	Unrealized  papertrade.Money `json:"unrealized"`
	Realized    papertrade.Money `json:"realized"`

	Positions []StatementPosition `json:"positions"`
	Orders    []StatementOrder    `json:"orders"`
	Trades    []StatementTrade    `json:"trades"`
}

// StatementPosition is a non empty position valued at the current price.
type StatementPosition struct {
	Ticker       string              `json:"ticker"`
	Quantity     papertrade.Quantity `json:"quantity"`
	AveragePrice papertrade.Money    `json:"averagePrice"`
	MarketPrice  papertrade.Money    `json:"marketPrice"`
	MarketValue  papertrade.Money    `json:"marketValue"`
	PnL          papertrade.Money    `json:"pnl"`
	Return       papertrade.Percent  `json:"return"`
}

// StatementOrder is an order still in the account's order list.
type StatementOrder struct {
	Action   string              `json:"action"`
	Ticker   string              `json:"ticker"`
	Quantity papertrade.Quantity `json:"quantity"`
	Filled   papertrade.Quantity `json:"filled"`
	Price    papertrade.Money    `json:"price"`
	Status   string              `json:"status"`
}

// StatementTrade is a closed part of a position.
type StatementTrade struct {
	Ticker   string              `json:"ticker"`
	Quantity papertrade.Quantity `json:"quantity"`
	Entry    papertrade.Money    `json:"entry"`
	Exit     papertrade.Money    `json:"exit"`
	PnL      papertrade.Money    `json:"pnl"`
	On       string              `json:"on"`
}

// NewStatement values account with its oracle's current prices.
func NewStatement(account *papertrade.Account, title string) (*Statement, error) {
	value, err := account.MarketValue()
	if err != nil {
		return nil, err
	}
	equity, err := account.Equity()
	if err != nil {
		return nil, err
	}
	pnl, err := account.PnL()
	if err != nil {
		return nil, err
	}
	s := &Statement{
		Title:       title,
		Currency:    account.Currency(),
		Cash:        account.Balance(),
		MarketValue: value,
		Equity:      equity,
		Unrealized:  pnl,
		Realized:    account.RealizedPnL(),
		Positions:   make([]StatementPosition, 0),
		Orders:      make([]StatementOrder, 0),
		Trades:      make([]StatementTrade, 0),
	}

	oracle := account.Oracle()
	for pos := range account.Positions() {
		if pos.Quantity().IsZero() {
			continue
		}
		price, err := oracle.Price(pos.Ticker())
		if err != nil {
			return nil, fmt.Errorf("cannot value %s: %w", pos.Ticker(), err)
		}
		mv, err := pos.MarketValue(oracle)
		if err != nil {
			return nil, fmt.Errorf("cannot value %s: %w", pos.Ticker(), err)
		}
		upnl, err := pos.UnrealizedPnL(oracle)
		if err != nil {
			return nil, fmt.Errorf("cannot compute the P&L of %s: %w", pos.Ticker(), err)
		}
		ret, err := pos.Return(oracle)
		if err != nil {
			return nil, fmt.Errorf("cannot compute the return of %s: %w", pos.Ticker(), err)
		}
		s.Positions = append(s.Positions, StatementPosition{
			Ticker:       pos.Ticker(),
			Quantity:     pos.Quantity(),
			AveragePrice: pos.Price(),
			MarketPrice:  price,
			MarketValue:  mv,
			PnL:          upnl,
			Return:       ret,
		})
	}

	for _, o := range account.Orders() {
		s.Orders = append(s.Orders, StatementOrder{
			Action:   o.Action().String(),
			Ticker:   o.Ticker(),
			Quantity: o.Quantity(),
			Filled:   o.Filled(),
			Price:    o.Price(),
			Status:   o.Status().String(),
		})
	}

	for _, t := range account.Trades() {
		s.Trades = append(s.Trades, StatementTrade{
			Ticker:   t.Ticker(),
			Quantity: t.Quantity(),
			Entry:    t.EntryPrice(),
			Exit:     t.ExitPrice(),
			PnL:      t.RealizedPnL(),
			On:       t.Timestamp().Format("2006-01-02 15:04"),
		})
	}
	return s, nil
}
