package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInitialDeposit is the paper cash every account starts with.
var DefaultInitialDeposit = decimal.NewFromInt(100_000)

// Account is the per-user ledger state. Cash is never negative after a
// successful operation; accounts are created on first access and never
// deleted.
type Account struct {
	UserID         string
	Cash           decimal.Decimal
	InitialDeposit decimal.Decimal
	RealizedPL     decimal.Decimal
	CreatedAt      time.Time
	Positions      []Position
}

// Position is a held quantity of one ticker. Quantity is strictly positive;
// a position that reaches zero is removed from the account.
type Position struct {
	Ticker       string
	Quantity     int64
	AvgCostBasis decimal.Decimal
}

// Transaction is one immutable entry of the append-only audit trail. It is
// recorded in the same atomic unit as the balance change it describes.
type Transaction struct {
	ID        int64
	UserID    string
	Type      TransactionType
	Ticker    string
	Quantity  int64
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Order is a market-order submission record. It transitions from pending to
// exactly one terminal state (filled or rejected) synchronously and is
// immutable afterwards.
type Order struct {
	OrderID     string
	UserID      string
	Ticker      string
	Side        OrderSide
	Type        OrderType
	Quantity    int64
	Status      OrderStatus
	FilledPrice *decimal.Decimal
	Message     string
	CreatedAt   time.Time
}
