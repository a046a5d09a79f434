package papertrade

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

// CommandType identifies an operation in a session script.
type CommandType string

// Command types of a session script.
const (
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
	CmdOrder    CommandType = "order"
	CmdExecute  CommandType = "execute"
	CmdClear    CommandType = "clear"
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdClose    CommandType = "close"
	CmdPrice    CommandType = "price"
)

// Command is one operation of a session script.
//
// Only the fields relevant to Type are used: Amount for deposit, withdraw and
// price; Ticker for order, buy, sell and price; Action for order; Quantity for
// order, buy and sell unless All is set (buy max, sell all); Tickers for
// close.
type Command struct {
	Type     CommandType
	Ticker   string
	Action   Action
	Quantity Quantity
	All      bool
	Tickers  []string
	Amount   Money
	Memo     string
}

// Validate checks that the fields required by the command type are present.
func (c Command) Validate() error {
	switch c.Type {
	case CmdDeposit, CmdWithdraw:
		if c.Amount.IsNegative() {
			return fmt.Errorf("%s %s: %w", c.Type, c.Amount, ErrNegativeAmount)
		}
	case CmdOrder, CmdBuy, CmdSell, CmdPrice:
		if c.Ticker == "" {
			return fmt.Errorf("%s requires a ticker", c.Type)
		}
		if c.Type == CmdOrder && !c.Action.Valid() {
			return fmt.Errorf("%s: %w", c.Type, ErrInvalidAction)
		}
		if c.Type == CmdOrder && c.All {
			return fmt.Errorf("%s requires a quantity", c.Type)
		}
	case CmdExecute, CmdClear, CmdClose:
	default:
		return fmt.Errorf("unknown session command: %q", c.Type)
	}
	return nil
}

// Apply performs the command on account. Price updates go to prices, which
// may be nil when no price command is expected.
func (c Command) Apply(account *Account, prices *PriceTable) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var err error
	switch c.Type {
	case CmdDeposit:
		err = account.Deposit(c.Amount)
	case CmdWithdraw:
		err = account.Withdraw(c.Amount)
	case CmdOrder:
		_, err = account.PlaceOrder(c.Ticker, c.Action, c.Quantity)
	case CmdExecute:
		err = account.ExecuteAllPending()
	case CmdClear:
		account.ClearFilledOrders()
	case CmdBuy:
		if c.All {
			_, err = account.BuyMax(c.Ticker)
		} else {
			_, err = account.Buy(c.Ticker, c.Quantity)
		}
	case CmdSell:
		if c.All {
			_, err = account.SellAll(c.Ticker)
		} else {
			_, err = account.Sell(c.Ticker, c.Quantity)
		}
	case CmdClose:
		_, err = account.ClosePositions(c.Tickers...)
	case CmdPrice:
		if prices == nil {
			return errors.New("price updates need a price table")
		}
		err = prices.Set(c.Ticker, c.Amount)
	}
	return err
}

// MarshalJSON implements the json.Marshaler interface for Command.
func (c Command) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", c.Type)
	switch c.Type {
	case CmdDeposit, CmdWithdraw:
		// scripts keep every digit so that a replay sees the recorded amount.
		w.EmbedFrom(c.Amount.exact())
	case CmdOrder:
		w.Append("ticker", c.Ticker)
		w.Append("action", c.Action)
		w.Append("quantity", c.Quantity)
	case CmdBuy, CmdSell:
		w.Append("ticker", c.Ticker)
		if c.All {
			w.Append("all", true)
		} else {
			w.Append("quantity", c.Quantity)
		}
	case CmdClose:
		w.Optional("tickers", c.Tickers)
	case CmdPrice:
		w.Append("ticker", c.Ticker)
		w.EmbedFrom(c.Amount.exact())
	}
	w.Optional("memo", c.Memo)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Command.
func (c *Command) UnmarshalJSON(data []byte) error {
	// a temporary struct with all possible fields.
	var temp struct {
		Command  CommandType     `json:"command"`
		Ticker   string          `json:"ticker"`
		Action   string          `json:"action"`
		Quantity Quantity        `json:"quantity"`
		All      bool            `json:"all"`
		Tickers  []string        `json:"tickers"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Memo     string          `json:"memo"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	cmd := Command{
		Type:     temp.Command,
		Ticker:   temp.Ticker,
		Quantity: temp.Quantity,
		All:      temp.All,
		Tickers:  temp.Tickers,
		Amount:   M(temp.Amount, temp.Currency),
		Memo:     temp.Memo,
	}
	if temp.Command == CmdOrder {
		action, err := ParseAction(temp.Action)
		if err != nil {
			return err
		}
		cmd.Action = action
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	*c = cmd
	return nil
}

// Session is an ordered list of commands, as read from a JSONL script.
type Session struct {
	commands []Command
	lines    []int // line of each command in its script, for error messages
}

// NewSession creates a session with commands.
func NewSession(commands ...Command) *Session {
	s := &Session{}
	for _, c := range commands {
		s.Append(c)
	}
	return s
}

// Append adds a command at the end of the session.
func (s *Session) Append(c Command) {
	line := 1
	if n := len(s.lines); n > 0 {
		line = s.lines[n-1] + 1
	}
	s.commands = append(s.commands, c)
	s.lines = append(s.lines, line)
}

// Len returns the number of commands.
func (s *Session) Len() int { return len(s.commands) }

// Commands returns the commands in script order.
func (s *Session) Commands() []Command { return slices.Clone(s.commands) }

// Replay applies every command in order to account. It stops at the first
// failing command and reports its line.
func (s *Session) Replay(account *Account, prices *PriceTable) error {
	for i, c := range s.commands {
		if err := c.Apply(account, prices); err != nil {
			return fmt.Errorf("line %d: %w", s.lines[i], err)
		}
	}
	return nil
}

// DecodeSession reads a JSONL session script, one command per line. Blank
// lines are skipped.
func DecodeSession(r io.Reader) (*Session, error) {
	s := &Session{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var c Command
		if err := json.Unmarshal(lineBytes, &c); err != nil {
			return nil, fmt.Errorf("line %d: invalid command %q: %w", line, string(lineBytes), err)
		}
		s.commands = append(s.commands, c)
		s.lines = append(s.lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return s, nil
}

// EncodeCommand writes a single command followed by a newline, in JSONL
// format.
func EncodeCommand(w io.Writer, c Command) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}
	return nil
}

// EncodeSession writes every command of s in JSONL format.
func EncodeSession(w io.Writer, s *Session) error {
	for _, c := range s.commands {
		if err := EncodeCommand(w, c); err != nil {
			return err
		}
	}
	return nil
}
