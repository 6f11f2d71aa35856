package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/shopspring/decimal"
)

// MemoryLedger is an in-process ledger store. It backs the service when no
// database is configured and the test suite. All mutations go through
// ApplyFill under the per-account write lock; reads take the read lock so
// they observe either the pre-fill or post-fill state, never a partial one.
type MemoryLedger struct {
	mu       sync.Mutex // guards the accounts map; per-account state uses locks
	accounts map[string]*memoryAccount
	locks    accountLocks
	nextTxID int64
}

type memoryAccount struct {
	cash           decimal.Decimal
	initialDeposit decimal.Decimal
	realizedPL     decimal.Decimal
	createdAt      time.Time
	positions      map[string]*models.Position
	transactions   []models.Transaction
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[string]*memoryAccount),
	}
}

// account returns the backing record for userID, creating it with the
// default initial deposit on first access.
func (l *MemoryLedger) account(userID string) *memoryAccount {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[userID]
	if !ok {
		acct = &memoryAccount{
			cash:           models.DefaultInitialDeposit,
			initialDeposit: models.DefaultInitialDeposit,
			realizedPL:     decimal.Zero,
			createdAt:      time.Now(),
			positions:      make(map[string]*models.Position),
		}
		l.accounts[userID] = acct
	}
	return acct
}

// GetAccount returns a consistent snapshot of the account, creating it on
// first access. Positions are sorted by ticker for stable output.
func (l *MemoryLedger) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acct := l.account(userID)

	lock := l.locks.get(userID)
	lock.RLock()
	defer lock.RUnlock()

	positions := make([]models.Position, 0, len(acct.positions))
	for _, p := range acct.positions {
		positions = append(positions, *p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Ticker < positions[j].Ticker })

	return &models.Account{
		UserID:         userID,
		Cash:           acct.cash,
		InitialDeposit: acct.initialDeposit,
		RealizedPL:     acct.realizedPL,
		CreatedAt:      acct.createdAt,
		Positions:      positions,
	}, nil
}

// ApplyFill is the sole ledger mutator. It validates the precondition for
// the side, updates cash and the position, and appends the transaction as
// one unit under the account's write lock. On any failure the account is
// left untouched.
func (l *MemoryLedger) ApplyFill(ctx context.Context, userID, ticker string, side models.OrderSide, quantity int64, price decimal.Decimal) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	acct := l.account(userID)

	lock := l.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	qty := decimal.NewFromInt(quantity)
	notional := price.Mul(qty)

	switch side {
	case models.SideBuy:
		if acct.cash.LessThan(notional) {
			return nil, models.ErrInsufficientFunds
		}
		acct.cash = acct.cash.Sub(notional)
		if pos, ok := acct.positions[ticker]; ok {
			held := decimal.NewFromInt(pos.Quantity)
			total := held.Add(qty)
			pos.AvgCostBasis = held.Mul(pos.AvgCostBasis).Add(notional).Div(total)
			pos.Quantity += quantity
		} else {
			acct.positions[ticker] = &models.Position{
				Ticker:       ticker,
				Quantity:     quantity,
				AvgCostBasis: price,
			}
		}

	case models.SideSell:
		pos, ok := acct.positions[ticker]
		if !ok || pos.Quantity < quantity {
			return nil, models.ErrInsufficientShares
		}
		acct.cash = acct.cash.Add(notional)
		acct.realizedPL = acct.realizedPL.Add(price.Sub(pos.AvgCostBasis).Mul(qty))
		pos.Quantity -= quantity
		if pos.Quantity == 0 {
			delete(acct.positions, ticker)
		}

	default:
		return nil, models.ErrInvalidQuantity
	}

	txn := models.Transaction{
		ID:        atomic.AddInt64(&l.nextTxID, 1),
		UserID:    userID,
		Type:      models.TransactionTypeForSide(side),
		Ticker:    ticker,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: time.Now(),
	}
	acct.transactions = append(acct.transactions, txn)

	return &txn, nil
}

// ListTransactions returns the account's full audit trail, most recent
// first.
func (l *MemoryLedger) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acct := l.account(userID)

	lock := l.locks.get(userID)
	lock.RLock()
	defer lock.RUnlock()

	out := make([]models.Transaction, 0, len(acct.transactions))
	for i := len(acct.transactions) - 1; i >= 0; i-- {
		out = append(out, acct.transactions[i])
	}
	return out, nil
}

// MemoryOrderLog keeps per-user order history in memory, newest last.
type MemoryOrderLog struct {
	mu     sync.Mutex
	orders map[string][]models.Order
}

func NewMemoryOrderLog() *MemoryOrderLog {
	return &MemoryOrderLog{
		orders: make(map[string][]models.Order),
	}
}

func (l *MemoryOrderLog) AppendOrder(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders[order.UserID] = append(l.orders[order.UserID], *order)
	return nil
}

func (l *MemoryOrderLog) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.orders[userID]
	out := make([]models.Order, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out, nil
}
