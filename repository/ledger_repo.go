package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AI-Trading-APP/paper-trading/db/postgres/providers"
	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the PostgreSQL-backed ledger store. ApplyFill runs
// inside a serializable transaction under a per-account mutex, so fills for
// one user serialize while other users proceed concurrently.
type LedgerRepository struct {
	DBHelper *providers.DBHelper
	locks    accountLocks
}

func NewLedgerRepository(db *providers.DBHelper) *LedgerRepository {
	return &LedgerRepository{DBHelper: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensureAccount creates the account row with the initial deposit if it does
// not exist yet. Safe to call repeatedly.
func (r *LedgerRepository) ensureAccount(ctx context.Context, q execer, userID string) error {
	query := `
		INSERT INTO accounts (user_id, cash, initial_deposit, realized_pl, created_at)
		VALUES ($1, $2, $2, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING`
	_, err := q.ExecContext(ctx, query, userID, models.DefaultInitialDeposit)
	return err
}

// GetAccount returns a consistent snapshot of the account and its positions,
// creating the account on first access.
func (r *LedgerRepository) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	if err := r.ensureAccount(ctx, r.DBHelper.PostgresClient, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}

	tx, err := r.DBHelper.PostgresClient.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	account := models.Account{UserID: userID}
	err = tx.QueryRowContext(ctx, `
		SELECT cash, initial_deposit, realized_pl, created_at
		FROM accounts WHERE user_id = $1`, userID,
	).Scan(&account.Cash, &account.InitialDeposit, &account.RealizedPL, &account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", userID, err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT ticker, quantity, avg_cost_basis
		FROM positions WHERE user_id = $1
		ORDER BY ticker ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.Ticker, &p.Quantity, &p.AvgCostBasis); err != nil {
			return nil, err
		}
		account.Positions = append(account.Positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &account, nil
}

// ApplyFill validates the fill against the account, updates cash and the
// position, and appends the transaction, all inside one serializable
// database transaction. On any failure nothing is committed.
func (r *LedgerRepository) ApplyFill(ctx context.Context, userID, ticker string, side models.OrderSide, quantity int64, price decimal.Decimal) (*models.Transaction, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}

	lock := r.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := r.DBHelper.PostgresClient.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = r.ensureAccount(ctx, tx, userID); err != nil {
		return nil, err
	}

	var cash, realizedPL decimal.Decimal
	err = tx.QueryRowContext(ctx, `
		SELECT cash, realized_pl FROM accounts
		WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&cash, &realizedPL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", userID, err)
	}

	var heldQty int64
	var basis decimal.Decimal
	hasPosition := true
	err = tx.QueryRowContext(ctx, `
		SELECT quantity, avg_cost_basis FROM positions
		WHERE user_id = $1 AND ticker = $2 FOR UPDATE`, userID, ticker,
	).Scan(&heldQty, &basis)
	if errors.Is(err, sql.ErrNoRows) {
		hasPosition = false
		err = nil
	} else if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(quantity)
	notional := price.Mul(qty)

	switch side {
	case models.SideBuy:
		if cash.LessThan(notional) {
			err = models.ErrInsufficientFunds
			return nil, err
		}
		cash = cash.Sub(notional)
		if hasPosition {
			held := decimal.NewFromInt(heldQty)
			basis = held.Mul(basis).Add(notional).Div(held.Add(qty))
		} else {
			basis = price
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO positions (user_id, ticker, quantity, avg_cost_basis)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, ticker)
			DO UPDATE SET quantity = $3, avg_cost_basis = $4`,
			userID, ticker, heldQty+quantity, basis)
		if err != nil {
			return nil, err
		}

	case models.SideSell:
		if !hasPosition || heldQty < quantity {
			err = models.ErrInsufficientShares
			return nil, err
		}
		cash = cash.Add(notional)
		realizedPL = realizedPL.Add(price.Sub(basis).Mul(qty))
		if heldQty == quantity {
			_, err = tx.ExecContext(ctx, `
				DELETE FROM positions WHERE user_id = $1 AND ticker = $2`,
				userID, ticker)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE positions SET quantity = $3
				WHERE user_id = $1 AND ticker = $2`,
				userID, ticker, heldQty-quantity)
		}
		if err != nil {
			return nil, err
		}

	default:
		err = models.ErrInvalidQuantity
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE accounts SET cash = $2, realized_pl = $3 WHERE user_id = $1`,
		userID, cash, realizedPL)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:   userID,
		Type:     models.TransactionTypeForSide(side),
		Ticker:   ticker,
		Quantity: quantity,
		Price:    price,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, ticker, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`,
		userID, txn.Type, ticker, quantity, price,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &txn, nil
}

// ListTransactions returns the full audit trail, most recent first.
func (r *LedgerRepository) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, `
		SELECT id, user_id, type, ticker, quantity, price, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Ticker, &t.Quantity, &t.Price, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
