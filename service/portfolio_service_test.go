package service_test

import (
	"context"
	"testing"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/AI-Trading-APP/paper-trading/repository"
	"github.com/AI-Trading-APP/paper-trading/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortfolio() (*service.PortfolioService, *service.OrderEngine) {
	ledger := repository.NewMemoryLedger()
	orders := repository.NewMemoryOrderLog()
	prices := testPrices()
	return service.NewPortfolioService(ledger, orders, prices),
		service.NewOrderEngine(ledger, orders, prices)
}

func TestGetPortfolioFreshAccount(t *testing.T) {
	portfolio, _ := newTestPortfolio()

	resp, err := portfolio.GetPortfolio(context.Background(), "fresh_user")
	require.NoError(t, err)

	assert.Equal(t, 100000.0, resp.Cash)
	assert.Equal(t, 100000.0, resp.TotalValue)
	assert.Empty(t, resp.Positions)
}

func TestGetPortfolioValuesAtCurrentPrice(t *testing.T) {
	portfolio, _ := newTestPortfolio()
	ctx := context.Background()

	// Manual entry at 140, feed quotes 150.
	_, err := portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "AAPL", Quantity: 10, Price: 140})
	require.NoError(t, err)

	resp, err := portfolio.GetPortfolio(ctx, "test_user")
	require.NoError(t, err)

	assert.Equal(t, 98600.0, resp.Cash)
	require.Len(t, resp.Positions, 1)
	pos := resp.Positions[0]
	assert.Equal(t, "AAPL", pos.Ticker)
	assert.Equal(t, int64(10), pos.Quantity)
	assert.Equal(t, 140.0, pos.AvgCostBasis)
	assert.Equal(t, 150.0, pos.CurrentPrice)
	assert.Equal(t, 1500.0, pos.MarketValue)
	assert.Equal(t, 100.0, pos.UnrealizedPL)
	assert.Equal(t, 100100.0, resp.TotalValue)
}

func TestGetPortfolioUnpricedPositionCarriedAtCost(t *testing.T) {
	portfolio, _ := newTestPortfolio()
	ctx := context.Background()

	// DELISTED is not in the static feed, so it values at basis.
	_, err := portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "DELISTED", Quantity: 10, Price: 50})
	require.NoError(t, err)

	resp, err := portfolio.GetPortfolio(ctx, "test_user")
	require.NoError(t, err)

	require.Len(t, resp.Positions, 1)
	assert.Equal(t, 50.0, resp.Positions[0].CurrentPrice)
	assert.Equal(t, 0.0, resp.Positions[0].UnrealizedPL)
	assert.Equal(t, 100000.0, resp.TotalValue)
}

func TestGetAccountSummaryPL(t *testing.T) {
	portfolio, _ := newTestPortfolio()
	ctx := context.Background()

	// 10 AAPL bought at 140, quoted at 150: +100 total P&L on 100k.
	_, err := portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "AAPL", Quantity: 10, Price: 140})
	require.NoError(t, err)

	resp, err := portfolio.GetAccountSummary(ctx, "test_user")
	require.NoError(t, err)

	assert.Equal(t, 100100.0, resp.TotalValue)
	assert.Equal(t, 100.0, resp.TotalPL)
	assert.Equal(t, 0.1, resp.TotalPLPercent)
}

func TestBuyValidation(t *testing.T) {
	tests := []struct {
		name    string
		request models.BuyRequest
		wantErr error
	}{
		{
			name:    "zero quantity",
			request: models.BuyRequest{Ticker: "AAPL", Quantity: 0, Price: 150},
			wantErr: models.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			request: models.BuyRequest{Ticker: "AAPL", Quantity: -5, Price: 150},
			wantErr: models.ErrInvalidQuantity,
		},
		{
			name:    "zero price",
			request: models.BuyRequest{Ticker: "AAPL", Quantity: 5, Price: 0},
			wantErr: models.ErrInvalidQuantity,
		},
		{
			name:    "cost above cash",
			request: models.BuyRequest{Ticker: "AAPL", Quantity: 1000, Price: 150},
			wantErr: models.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portfolio, _ := newTestPortfolio()
			ctx := context.Background()

			_, err := portfolio.Buy(ctx, "test_user", &tt.request)
			require.ErrorIs(t, err, tt.wantErr)

			resp, err := portfolio.GetPortfolio(ctx, "test_user")
			require.NoError(t, err)
			assert.Equal(t, 100000.0, resp.Cash, "failed buy must not move cash")
			assert.Empty(t, resp.Positions)
		})
	}
}

func TestGetTransactionsNewestFirst(t *testing.T) {
	portfolio, _ := newTestPortfolio()
	ctx := context.Background()

	_, err := portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "AAPL", Quantity: 10, Price: 150})
	require.NoError(t, err)
	_, err = portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "MSFT", Quantity: 5, Price: 300})
	require.NoError(t, err)

	resp, err := portfolio.GetTransactions(ctx, "test_user")
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "MSFT", resp.Transactions[0].Ticker)
	assert.Equal(t, "AAPL", resp.Transactions[1].Ticker)
	assert.Equal(t, models.TransactionBuy, resp.Transactions[0].Type)
	assert.Equal(t, 300.0, resp.Transactions[0].Price)
}

func TestGetOrdersIncludesRejections(t *testing.T) {
	portfolio, engine := newTestPortfolio()
	ctx := context.Background()

	filled, err := engine.SubmitOrder(ctx, "test_user", &models.PlaceOrderRequest{
		Ticker: "MSFT", Type: "market", Side: "buy", Quantity: 5,
	})
	require.NoError(t, err)
	rejected, err := engine.SubmitOrder(ctx, "test_user", &models.PlaceOrderRequest{
		Ticker: "NOPE", Type: "market", Side: "buy", Quantity: 5,
	})
	require.NoError(t, err)

	resp, err := portfolio.GetOrders(ctx, "test_user")
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)

	assert.Equal(t, rejected.OrderID, resp.Orders[0].OrderID)
	assert.Equal(t, models.OrderStatusRejected, resp.Orders[0].Status)
	assert.Nil(t, resp.Orders[0].FilledPrice)

	assert.Equal(t, filled.OrderID, resp.Orders[1].OrderID)
	require.NotNil(t, resp.Orders[1].FilledPrice)
	assert.Equal(t, 300.0, *resp.Orders[1].FilledPrice)
}

func TestBuyAveragesBasisAcrossSurfaces(t *testing.T) {
	portfolio, engine := newTestPortfolio()
	ctx := context.Background()

	// Manual entry at 150, then a market fill at the feed's 150.
	_, err := portfolio.Buy(ctx, "test_user", &models.BuyRequest{Ticker: "AAPL", Quantity: 10, Price: 150})
	require.NoError(t, err)
	order, err := engine.SubmitOrder(ctx, "test_user", &models.PlaceOrderRequest{
		Ticker: "AAPL", Type: "market", Side: "buy", Quantity: 5,
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusFilled, order.Status)

	resp, err := portfolio.GetPortfolio(ctx, "test_user")
	require.NoError(t, err)
	require.Len(t, resp.Positions, 1)
	assert.Equal(t, int64(15), resp.Positions[0].Quantity)
	assert.Equal(t, 150.0, resp.Positions[0].AvgCostBasis)

	txns, err := portfolio.GetTransactions(ctx, "test_user")
	require.NoError(t, err)
	assert.Len(t, txns.Transactions, 2, "both surfaces write the same ledger")
}
