package papertrade

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Account is a single-user trading ledger: a cash balance, positions per
// ticker, the list of orders and the history of trades.
//
// Every mutating method either succeeds with all invariants intact or fails
// leaving the account unchanged: validation always happens before mutation.
// Account is not safe for concurrent use; callers sharing an Account must
// serialize access to it.
type Account struct {
	cash      Money
	oracle    PriceOracle
	positions map[string]*Position
	tickers   []string // positions in creation order
	orders    []*Order
	trades    []Trade

	log *zap.Logger
	now func() time.Time
}

// Option configures an Account.
type Option func(*Account)

// WithLogger sets the logger used to trace account activity at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(a *Account) { a.log = l }
}

// WithClock sets the clock used to timestamp orders and trades.
func WithClock(now func() time.Time) Option {
	return func(a *Account) { a.now = now }
}

// NewAccount creates an account holding balance, priced by oracle.
func NewAccount(balance Money, oracle PriceOracle, opts ...Option) (*Account, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("funds cannot be negative, got %s: %w", balance, ErrNegativeAmount)
	}
	if oracle == nil {
		return nil, errors.New("account requires a price oracle")
	}
	a := &Account{
		cash:      balance,
		oracle:    oracle,
		positions: make(map[string]*Position),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Balance returns the cash balance.
func (a *Account) Balance() Money { return a.cash }

// Currency returns the currency of the cash balance.
func (a *Account) Currency() string { return a.cash.Currency() }

// Oracle returns the price oracle used to value the account.
func (a *Account) Oracle() PriceOracle { return a.oracle }

// Deposit adds amount to the cash balance.
func (a *Account) Deposit(amount Money) error {
	if err := a.checkAmount(amount); err != nil {
		return fmt.Errorf("cannot deposit: %w", err)
	}
	a.cash = a.cash.Add(amount)
	a.log.Debug("deposit", zap.Stringer("amount", amount), zap.Stringer("balance", a.cash))
	return nil
}

// Withdraw removes amount from the cash balance.
func (a *Account) Withdraw(amount Money) error {
	if err := a.checkAmount(amount); err != nil {
		return fmt.Errorf("cannot withdraw: %w", err)
	}
	if amount.GreaterThan(a.cash) {
		return fmt.Errorf("cannot withdraw %s, balance is %s: %w", amount, a.cash, ErrInsufficientFunds)
	}
	a.cash = a.cash.Sub(amount)
	a.log.Debug("withdraw", zap.Stringer("amount", amount), zap.Stringer("balance", a.cash))
	return nil
}

func (a *Account) checkAmount(amount Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s: %w", amount, ErrNegativeAmount)
	}
	if !sameCurrency(amount, a.cash) {
		return fmt.Errorf("%s into a %s account: %w", amount.Currency(), a.Currency(), ErrCurrencyMismatch)
	}
	return nil
}

// PlaceOrder validates and records a new unfilled order.
//
// A buy must be affordable with the current balance, a sell needs an existing
// position holding at least quantity.
func (a *Account) PlaceOrder(ticker string, action Action, quantity Quantity) (*Order, error) {
	o, err := a.newOrder(ticker, action, quantity)
	if err != nil {
		return nil, err
	}
	a.orders = append(a.orders, o)
	a.log.Debug("order placed",
		zap.String("order", o.ID()),
		zap.String("ticker", ticker),
		zap.Stringer("action", action),
		zap.Stringer("quantity", quantity),
		zap.Stringer("price", o.Price()),
	)
	return o, nil
}

// newOrder creates a feasible order without recording it.
func (a *Account) newOrder(ticker string, action Action, quantity Quantity) (*Order, error) {
	o, err := NewOrder(a.oracle, ticker, action, quantity, a.now())
	if err != nil {
		return nil, err
	}
	if !sameCurrency(o.Price(), a.cash) {
		return nil, fmt.Errorf("%s is quoted in %s, account is in %s: %w", ticker, o.Price().Currency(), a.Currency(), ErrCurrencyMismatch)
	}
	if err := a.feasible(o); err != nil {
		return nil, err
	}
	return o, nil
}

// feasible checks that executing the remaining quantity of o keeps the
// account invariants.
func (a *Account) feasible(o *Order) error {
	switch o.Action() {
	case Buy:
		cost := o.Price().Mul(o.Remaining())
		if cost.GreaterThan(a.cash) {
			return fmt.Errorf("cannot buy %s %s for %s, balance is %s: %w", o.Remaining(), o.Ticker(), cost, a.cash, ErrInsufficientFunds)
		}
	case Sell:
		pos, ok := a.positions[o.Ticker()]
		if !ok {
			return fmt.Errorf("cannot sell %s: %w", o.Ticker(), ErrNoSuchPosition)
		}
		if o.Remaining().GreaterThan(pos.Quantity()) {
			return fmt.Errorf("cannot sell %s of %s, position is only %s: %w", o.Remaining(), o.Ticker(), pos.Quantity(), ErrInsufficientHoldings)
		}
	}
	return nil
}

// ExecuteOrder fills the remaining quantity of an order placed on this
// account: the position is updated at the order's frozen price, the cash
// balance moves by the order's signed size, and a sell records a Trade.
//
// The order is checked again against the current balance and holdings, since
// they may have changed since it was placed.
func (a *Account) ExecuteOrder(o *Order) error {
	if !slices.Contains(a.orders, o) {
		return fmt.Errorf("cannot execute %s: %w", o, ErrUnknownOrder)
	}
	// an empty order is born filled and executes as a no-op.
	if o.Status() == Filled && o.Quantity().IsPositive() {
		return fmt.Errorf("cannot execute %s: %w", o, ErrOrderFilled)
	}
	if err := a.feasible(o); err != nil {
		return err
	}

	pos, exists := a.positions[o.Ticker()]
	if !exists {
		pos = NewPosition(o.Ticker(), a.Currency())
	}

	// The entry price must be captured before the position is mutated.
	var trade *Trade
	if o.Action() == Sell {
		t, err := OpenTrade(*pos, o, a.now())
		if err != nil {
			return err
		}
		trade = &t
	}

	// Validation done, from here on nothing fails.
	if !exists {
		a.positions[o.Ticker()] = pos
		a.tickers = append(a.tickers, o.Ticker())
	}
	delta := o.Price().Mul(o.Remaining().Mul(o.Action().Sign()))
	pos.ApplyOrder(o)
	a.cash = a.cash.Sub(delta)
	if trade != nil {
		a.trades = append(a.trades, *trade)
	}

	a.log.Debug("order executed",
		zap.String("order", o.ID()),
		zap.String("ticker", o.Ticker()),
		zap.Stringer("action", o.Action()),
		zap.Stringer("quantity", o.Quantity()),
		zap.Stringer("price", o.Price()),
		zap.Stringer("balance", a.cash),
	)
	return nil
}

// ExecuteAllPending executes every order not filled yet, in the order they
// were placed. Each order sees the effects of the previous ones. An order that
// is no longer feasible stays unfilled and its error is reported; the other
// orders are executed anyway.
func (a *Account) ExecuteAllPending() error {
	var errs error
	for _, o := range slices.Clone(a.orders) {
		if o.Status() == Filled {
			continue
		}
		if err := a.ExecuteOrder(o); err != nil {
			errs = errors.Join(errs, fmt.Errorf("order %s: %w", o.ID(), err))
		}
	}
	return errs
}

// ClearFilledOrders removes filled orders from the order list and returns how
// many were removed. Positions and trades are not affected.
func (a *Account) ClearFilledOrders() int {
	n := len(a.orders)
	a.orders = slices.DeleteFunc(a.orders, func(o *Order) bool { return o.Status() == Filled })
	return n - len(a.orders)
}

// placeAndExecute places an order and executes it at once.
func (a *Account) placeAndExecute(ticker string, action Action, quantity Quantity) (*Order, error) {
	o, err := a.PlaceOrder(ticker, action, quantity)
	if err != nil {
		return nil, err
	}
	if err := a.ExecuteOrder(o); err != nil {
		// unreachable after a successful placement, but keep the list clean.
		a.orders = slices.DeleteFunc(a.orders, func(x *Order) bool { return x == o })
		return nil, err
	}
	return o, nil
}

// Buy places and executes a buy order for quantity shares of ticker.
func (a *Account) Buy(ticker string, quantity Quantity) (*Order, error) {
	return a.placeAndExecute(ticker, Buy, quantity)
}

// BuyMax buys as many whole shares of ticker as the balance affords.
func (a *Account) BuyMax(ticker string) (*Order, error) {
	price, err := a.oracle.Price(ticker)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("cannot size a buy of %s priced %s: %w", ticker, price, ErrInvalidPrice)
	}
	if !sameCurrency(price, a.cash) {
		return nil, fmt.Errorf("%s is quoted in %s, account is in %s: %w", ticker, price.Currency(), a.Currency(), ErrCurrencyMismatch)
	}
	return a.Buy(ticker, a.cash.DivPrice(price).Floor())
}

// Sell places and executes a sell order for quantity shares of ticker.
func (a *Account) Sell(ticker string, quantity Quantity) (*Order, error) {
	return a.placeAndExecute(ticker, Sell, quantity)
}

// SellAll sells the whole position in ticker.
func (a *Account) SellAll(ticker string) (*Order, error) {
	pos, ok := a.positions[ticker]
	if !ok {
		return nil, fmt.Errorf("cannot sell %s: %w", ticker, ErrNoSuchPosition)
	}
	return a.Sell(ticker, pos.Quantity())
}

// ClosePositions sells the full quantity of each ticker, or of every held
// position when none is given, in position creation order. Empty positions are
// skipped. Either all positions are closed or none is.
func (a *Account) ClosePositions(tickers ...string) ([]*Order, error) {
	if len(tickers) == 0 {
		tickers = a.tickers
	}
	var pending []*Order
	seen := make(map[string]bool)
	for _, ticker := range tickers {
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		pos, ok := a.positions[ticker]
		if !ok {
			return nil, fmt.Errorf("cannot close %s: %w", ticker, ErrNoSuchPosition)
		}
		if pos.Quantity().IsZero() {
			continue
		}
		o, err := a.newOrder(ticker, Sell, pos.Quantity())
		if err != nil {
			return nil, fmt.Errorf("cannot close %s: %w", ticker, err)
		}
		pending = append(pending, o)
	}

	for _, o := range pending {
		a.orders = append(a.orders, o)
		if err := a.ExecuteOrder(o); err != nil {
			return nil, err // unreachable: sells on distinct tickers were validated.
		}
	}
	return pending, nil
}

// Position returns a copy of the position in ticker.
func (a *Account) Position(ticker string) (Position, bool) {
	pos, ok := a.positions[ticker]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions iterates over copies of the positions in creation order.
func (a *Account) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, ticker := range a.tickers {
			if !yield(*a.positions[ticker]) {
				return
			}
		}
	}
}

// Orders returns the orders in placement order, filled ones included until
// ClearFilledOrders is called.
func (a *Account) Orders() []*Order { return slices.Clone(a.orders) }

// Trades returns the trade history.
func (a *Account) Trades() []Trade { return slices.Clone(a.trades) }

// sum adds a metric over all positions.
func (a *Account) sum(metric func(*Position) (Money, error)) (Money, error) {
	total := M(0, a.Currency())
	for _, ticker := range a.tickers {
		v, err := metric(a.positions[ticker])
		if err != nil {
			return Money{}, err
		}
		if !sameCurrency(total, v) {
			return Money{}, fmt.Errorf("%s valued in %s: %w", ticker, v.Currency(), ErrCurrencyMismatch)
		}
		total = total.Add(v)
	}
	return total, nil
}

// PnL returns the unrealized profit and loss of all positions at current prices.
func (a *Account) PnL() (Money, error) {
	return a.sum(func(p *Position) (Money, error) { return p.UnrealizedPnL(a.oracle) })
}

// MarketValue returns the value of all positions at current prices.
func (a *Account) MarketValue() (Money, error) {
	return a.sum(func(p *Position) (Money, error) { return p.MarketValue(a.oracle) })
}

// RealizedPnL returns the profit and loss locked in by all trades.
func (a *Account) RealizedPnL() Money {
	total := M(0, a.Currency())
	for _, t := range a.trades {
		total = total.Add(t.RealizedPnL())
	}
	return total
}

// Equity returns the cash balance plus the market value of all positions.
func (a *Account) Equity() (Money, error) {
	value, err := a.MarketValue()
	if err != nil {
		return Money{}, err
	}
	return a.cash.Add(value), nil
}

// Validate checks the account invariants.
func (a *Account) Validate() error {
	var errs error
	if a.cash.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("negative balance: %s", a.cash))
	}
	if len(a.tickers) != len(a.positions) {
		errs = errors.Join(errs, fmt.Errorf("%d positions indexed, %d in creation order", len(a.positions), len(a.tickers)))
	}
	for ticker, pos := range a.positions {
		if pos.Ticker() != ticker {
			errs = errors.Join(errs, fmt.Errorf("position ticker mismatch: key=%s, position=%s", ticker, pos.Ticker()))
		}
		if pos.Quantity().IsNegative() {
			errs = errors.Join(errs, fmt.Errorf("negative quantity for %s: %s", ticker, pos.Quantity()))
		}
	}
	for _, o := range a.orders {
		if o.Filled().IsNegative() || o.Filled().GreaterThan(o.Quantity()) {
			errs = errors.Join(errs, fmt.Errorf("order %s filled %s out of %s", o.ID(), o.Filled(), o.Quantity()))
		}
	}
	return errs
}

// MarshalJSON implements the json.Marshaler interface for Account.
func (a *Account) MarshalJSON() ([]byte, error) {
	positions := make([]*Position, 0, len(a.tickers))
	for _, ticker := range a.tickers {
		positions = append(positions, a.positions[ticker])
	}
	var w jsonObjectWriter
	w.Append("balance", a.cash)
	w.Append("positions", positions)
	w.Append("orders", a.orders)
	w.Append("trades", a.trades)
	return w.MarshalJSON()
}
