package models

// BuyRequest is a manual trade entry on the portfolio surface: the caller
// supplies the execution price.
type BuyRequest struct {
	Ticker   string  `json:"ticker" validate:"required"`
	Quantity int64   `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// PlaceOrderRequest is a paper-trading order: the fill price is resolved
// internally from the price feed.
type PlaceOrderRequest struct {
	Ticker   string `json:"ticker" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=market"`
	Side     string `json:"side" validate:"required,oneof=buy sell"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}
