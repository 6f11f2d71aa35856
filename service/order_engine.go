package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/AI-Trading-APP/paper-trading/pricing"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// DefaultPriceTimeout bounds the price feed lookup so an order never stays
// pending behind a stalled feed.
const DefaultPriceTimeout = 3 * time.Second

// OrderEngine accepts market orders, resolves a fill price from the price
// feed, and applies the fill to the ledger. Every submission ends in a
// terminal order record: filled, or rejected with the failure reason as its
// message. Rejections never leave partial ledger state behind.
type OrderEngine struct {
	Ledger       LedgerStore
	Orders       OrderStore
	Prices       pricing.Source
	PriceTimeout time.Duration

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewOrderEngine(ledger LedgerStore, orders OrderStore, prices pricing.Source) *OrderEngine {
	return &OrderEngine{
		Ledger:       ledger,
		Orders:       orders,
		Prices:       prices,
		PriceTimeout: DefaultPriceTimeout,
		entropy:      ulid.Monotonic(rand.Reader, 0),
	}
}

// nextOrderID returns a ULID: unique, and lexicographically ordered by
// submission time across the process.
func (e *OrderEngine) nextOrderID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), e.entropy).String()
}

// SubmitOrder processes a market order synchronously. The returned order is
// terminal; an error is returned only when the order record itself could not
// be stored.
func (e *OrderEngine) SubmitOrder(ctx context.Context, userID string, req *models.PlaceOrderRequest) (*models.Order, error) {
	order := &models.Order{
		OrderID:   e.nextOrderID(),
		UserID:    userID,
		Ticker:    strings.ToUpper(req.Ticker),
		Side:      models.OrderSide(req.Side),
		Type:      models.OrderType(req.Type),
		Quantity:  req.Quantity,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	if req.Quantity <= 0 {
		return e.reject(ctx, order, models.ErrInvalidQuantity)
	}

	price, err := e.resolvePrice(ctx, order.Ticker)
	if err != nil {
		return e.reject(ctx, order, err)
	}

	if _, err := e.Ledger.ApplyFill(ctx, userID, order.Ticker, order.Side, order.Quantity, price); err != nil {
		return e.reject(ctx, order, err)
	}

	order.Status = models.OrderStatusFilled
	order.FilledPrice = &price
	order.Message = fmt.Sprintf("%s order filled: %d %s @ %s",
		order.Side, order.Quantity, order.Ticker, price.StringFixed(2))

	if err := e.Orders.AppendOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	return order, nil
}

// resolvePrice asks the price feed under the engine's timeout. A timeout or
// feed failure surfaces as ErrPriceUnavailable so the order terminates
// instead of staying pending.
func (e *OrderEngine) resolvePrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	timeout := e.PriceTimeout
	if timeout <= 0 {
		timeout = DefaultPriceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, err := e.Prices.LastPrice(ctx, ticker)
	if err != nil {
		if errors.Is(err, models.ErrUnknownTicker) {
			return p, err
		}
		if !errors.Is(err, models.ErrPriceUnavailable) {
			return p, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
		}
		return p, err
	}
	return p, nil
}

// reject finalizes the order as rejected, records it, and returns it. The
// ledger failure travels in the order message, not as a transport error.
func (e *OrderEngine) reject(ctx context.Context, order *models.Order, cause error) (*models.Order, error) {
	order.Status = models.OrderStatusRejected
	order.Message = cause.Error()
	if err := e.Orders.AppendOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record rejected order: %w", err)
	}
	return order, nil
}
