package papertrade

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the side of an order.
type Action int

const (
	// Buy increases a position and consumes cash.
	Buy Action = iota
	// Sell decreases a position and credits cash.
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether a is Buy or Sell.
func (a Action) Valid() bool { return a == Buy || a == Sell }

// Sign returns +1 for Buy and -1 for Sell.
func (a Action) Sign() Quantity {
	if a == Sell {
		return Q(-1)
	}
	return Q(1)
}

// ParseAction parses "buy" or "sell", case-insensitive.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

func (a Action) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return json.Marshal(strings.ToLower(a.String()))
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// OrderStatus is derived from how much of an order has been filled.
type OrderStatus int

const (
	Unfilled OrderStatus = iota
	PartiallyFilled
	Filled
)

func (s OrderStatus) String() string {
	switch s {
	case Unfilled:
		return "unfilled"
	case PartiallyFilled:
		return "partially filled"
	case Filled:
		return "filled"
	default:
		return "unknown"
	}
}
