package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionView is a position enriched with current market data for
// portfolio responses.
type PositionView struct {
	Ticker       string  `json:"ticker"`
	Quantity     int64   `json:"quantity"`
	AvgCostBasis float64 `json:"avgCostBasis"`
	CurrentPrice float64 `json:"currentPrice"`
	MarketValue  float64 `json:"marketValue"`
	UnrealizedPL float64 `json:"unrealizedPL"`
}

type PortfolioResponse struct {
	Cash       float64        `json:"cash"`
	TotalValue float64        `json:"totalValue"`
	Positions  []PositionView `json:"positions"`
}

type AccountResponse struct {
	Cash           float64        `json:"cash"`
	TotalValue     float64        `json:"totalValue"`
	Positions      []PositionView `json:"positions"`
	TotalPL        float64        `json:"totalPL"`
	TotalPLPercent float64        `json:"totalPLPercent"`
}

type TransactionView struct {
	Type      TransactionType `json:"type"`
	Ticker    string          `json:"ticker"`
	Quantity  int64           `json:"quantity"`
	Price     float64         `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

type TransactionsResponse struct {
	Transactions []TransactionView `json:"transactions"`
}

type BuyResponse struct {
	Message     string          `json:"message"`
	Transaction TransactionView `json:"transaction"`
}

type OrderView struct {
	OrderID     string      `json:"orderId"`
	Ticker      string      `json:"ticker"`
	Side        OrderSide   `json:"side"`
	Type        OrderType   `json:"type"`
	Quantity    int64       `json:"quantity"`
	Status      OrderStatus `json:"status"`
	FilledPrice *float64    `json:"filledPrice,omitempty"`
	Message     string      `json:"message,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

type OrdersResponse struct {
	Orders []OrderView `json:"orders"`
}

// Money renders a decimal amount as a JSON number rounded to cents.
func Money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func NewTransactionView(t Transaction) TransactionView {
	return TransactionView{
		Type:      t.Type,
		Ticker:    t.Ticker,
		Quantity:  t.Quantity,
		Price:     Money(t.Price),
		Timestamp: t.CreatedAt,
	}
}

func NewOrderView(o Order) OrderView {
	view := OrderView{
		OrderID:   o.OrderID,
		Ticker:    o.Ticker,
		Side:      o.Side,
		Type:      o.Type,
		Quantity:  o.Quantity,
		Status:    o.Status,
		Message:   o.Message,
		Timestamp: o.CreatedAt,
	}
	if o.FilledPrice != nil {
		p := Money(*o.FilledPrice)
		view.FilledPrice = &p
	}
	return view
}
