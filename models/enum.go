package models

type OrderSide string
type OrderType string
type OrderStatus string
type TransactionType string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"

	OrderTypeMarket OrderType = "market"

	OrderStatusPending  OrderStatus = "pending"
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusRejected OrderStatus = "rejected"

	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// TransactionTypeForSide maps an order side to the transaction type recorded
// in the ledger.
func TransactionTypeForSide(side OrderSide) TransactionType {
	if side == SideSell {
		return TransactionSell
	}
	return TransactionBuy
}
