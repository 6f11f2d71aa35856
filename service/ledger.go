// Package service implements the order engine and the portfolio query
// service on top of pluggable ledger and order-history stores.
package service

import (
	"context"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/shopspring/decimal"
)

// LedgerStore is the durable per-user account state. ApplyFill is the sole
// mutator: it must apply cash, position, and transaction changes atomically
// (all-or-nothing) and serialize fills per account.
type LedgerStore interface {
	// GetAccount returns a consistent snapshot of the account, creating it
	// with the initial deposit on first access.
	GetAccount(ctx context.Context, userID string) (*models.Account, error)

	// ApplyFill validates sufficient cash (buy) or held quantity (sell),
	// updates cash and the position, and appends the transaction as one
	// atomic unit. Fails with models.ErrInsufficientFunds or
	// models.ErrInsufficientShares, leaving the account untouched.
	ApplyFill(ctx context.Context, userID, ticker string, side models.OrderSide, quantity int64, price decimal.Decimal) (*models.Transaction, error)

	// ListTransactions returns the full audit trail, most recent first.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

// OrderStore records terminal paper orders for later query.
type OrderStore interface {
	AppendOrder(ctx context.Context, order *models.Order) error

	// ListOrders returns the user's order history, most recent first.
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
}
