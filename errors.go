package papertrade

import "errors"

// Validation failures. They are never transient: the caller may retry with
// corrected input. Operations wrap them with context, test with errors.Is.
var (
	ErrNegativeAmount       = errors.New("negative amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrNoSuchPosition       = errors.New("no such position")
	ErrUnknownTicker        = errors.New("unknown ticker")
	ErrInvalidFillAmount    = errors.New("invalid fill amount")
	ErrInvalidTradeCapture  = errors.New("invalid trade capture")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidAction        = errors.New("invalid action")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrOrderFilled          = errors.New("order already filled")
	ErrUnknownOrder         = errors.New("order does not belong to this account")
)
