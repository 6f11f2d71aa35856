package models

import "errors"

// Ledger and order failures surfaced to callers. Order submission wraps
// these into a rejected order record rather than a transport error.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPriceUnavailable   = errors.New("price unavailable")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrUnknownTicker      = errors.New("unknown ticker")
)
