package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/AI-Trading-APP/paper-trading/pricing"
	"github.com/shopspring/decimal"
)

// PortfolioService serves read-only projections over the ledger plus the
// manual buy operation on the portfolio surface. Queries never mutate the
// ledger or the order history.
type PortfolioService struct {
	Ledger       LedgerStore
	Orders       OrderStore
	Prices       pricing.Source
	PriceTimeout time.Duration
}

func NewPortfolioService(ledger LedgerStore, orders OrderStore, prices pricing.Source) *PortfolioService {
	return &PortfolioService{
		Ledger:       ledger,
		Orders:       orders,
		Prices:       prices,
		PriceTimeout: DefaultPriceTimeout,
	}
}

// valuate prices each position against the feed. A position whose price
// cannot be resolved is carried at cost basis so one stale ticker does not
// fail the whole portfolio.
func (s *PortfolioService) valuate(ctx context.Context, account *models.Account) ([]models.PositionView, decimal.Decimal) {
	totalValue := account.Cash
	views := make([]models.PositionView, 0, len(account.Positions))

	for _, pos := range account.Positions {
		currentPrice := pos.AvgCostBasis
		if price, err := s.lastPrice(ctx, pos.Ticker); err == nil {
			currentPrice = price
		}

		qty := decimal.NewFromInt(pos.Quantity)
		marketValue := currentPrice.Mul(qty)
		totalValue = totalValue.Add(marketValue)

		views = append(views, models.PositionView{
			Ticker:       pos.Ticker,
			Quantity:     pos.Quantity,
			AvgCostBasis: models.Money(pos.AvgCostBasis),
			CurrentPrice: models.Money(currentPrice),
			MarketValue:  models.Money(marketValue),
			UnrealizedPL: models.Money(currentPrice.Sub(pos.AvgCostBasis).Mul(qty)),
		})
	}
	return views, totalValue
}

func (s *PortfolioService) lastPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	timeout := s.PriceTimeout
	if timeout <= 0 {
		timeout = DefaultPriceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Prices.LastPrice(ctx, ticker)
}

// GetPortfolio returns cash, priced positions, and total value.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) (*models.PortfolioResponse, error) {
	account, err := s.Ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	positions, totalValue := s.valuate(ctx, account)
	return &models.PortfolioResponse{
		Cash:       models.Money(account.Cash),
		TotalValue: models.Money(totalValue),
		Positions:  positions,
	}, nil
}

// GetAccountSummary returns the portfolio plus total P&L against the initial
// deposit.
func (s *PortfolioService) GetAccountSummary(ctx context.Context, userID string) (*models.AccountResponse, error) {
	account, err := s.Ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	positions, totalValue := s.valuate(ctx, account)

	totalPL := totalValue.Sub(account.InitialDeposit)
	plPercent := decimal.Zero
	if account.InitialDeposit.IsPositive() {
		plPercent = totalPL.Div(account.InitialDeposit).Mul(decimal.NewFromInt(100))
	}

	return &models.AccountResponse{
		Cash:           models.Money(account.Cash),
		TotalValue:     models.Money(totalValue),
		Positions:      positions,
		TotalPL:        models.Money(totalPL),
		TotalPLPercent: models.Money(plPercent),
	}, nil
}

// GetTransactions returns the audit trail, most recent first.
func (s *PortfolioService) GetTransactions(ctx context.Context, userID string) (*models.TransactionsResponse, error) {
	txns, err := s.Ledger.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.TransactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, models.NewTransactionView(t))
	}
	return &models.TransactionsResponse{Transactions: views}, nil
}

// GetOrders returns the paper-order history, most recent first.
func (s *PortfolioService) GetOrders(ctx context.Context, userID string) (*models.OrdersResponse, error) {
	orders, err := s.Orders.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.NewOrderView(o))
	}
	return &models.OrdersResponse{Orders: views}, nil
}

// Buy records a manual trade entry at the caller-supplied price. This is a
// deliberately different operation from a paper order, which resolves its
// price from the feed.
func (s *PortfolioService) Buy(ctx context.Context, userID string, req *models.BuyRequest) (*models.BuyResponse, error) {
	if req.Quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	price := decimal.NewFromFloat(req.Price)
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be greater than zero", models.ErrInvalidQuantity)
	}

	ticker := strings.ToUpper(req.Ticker)
	txn, err := s.Ledger.ApplyFill(ctx, userID, ticker, models.SideBuy, req.Quantity, price)
	if err != nil {
		return nil, err
	}

	return &models.BuyResponse{
		Message:     fmt.Sprintf("Bought %d %s @ %s", txn.Quantity, txn.Ticker, txn.Price.StringFixed(2)),
		Transaction: models.NewTransactionView(*txn),
	}, nil
}
