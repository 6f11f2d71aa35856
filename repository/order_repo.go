package repository

import (
	"context"

	"github.com/AI-Trading-APP/paper-trading/db/postgres/providers"
	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/shopspring/decimal"
)

// OrderRepository persists terminal paper orders (filled and rejected alike)
// for the per-user order history.
type OrderRepository struct {
	DBHelper *providers.DBHelper
}

func NewOrderRepository(db *providers.DBHelper) *OrderRepository {
	return &OrderRepository{DBHelper: db}
}

// AppendOrder inserts a terminal order record.
func (r *OrderRepository) AppendOrder(ctx context.Context, order *models.Order) error {
	var filled decimal.NullDecimal
	if order.FilledPrice != nil {
		filled = decimal.NewNullDecimal(*order.FilledPrice)
	}
	query := `
		INSERT INTO paper_orders (order_id, user_id, ticker, side, type, quantity, status, filled_price, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DBHelper.PostgresClient.ExecContext(ctx, query,
		order.OrderID, order.UserID, order.Ticker, order.Side, order.Type,
		order.Quantity, order.Status, filled, order.Message, order.CreatedAt,
	)
	return err
}

// ListOrders fetches the user's order history, most recent first. Order IDs
// are ULIDs, so the ID ordering matches submission time.
func (r *OrderRepository) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	query := `
		SELECT order_id, user_id, ticker, side, type, quantity, status, filled_price, message, created_at
		FROM paper_orders
		WHERE user_id = $1
		ORDER BY order_id DESC`
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var filled decimal.NullDecimal
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.Ticker, &o.Side, &o.Type,
			&o.Quantity, &o.Status, &filled, &o.Message, &o.CreatedAt); err != nil {
			return nil, err
		}
		if filled.Valid {
			price := filled.Decimal
			o.FilledPrice = &price
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
