// Package pricing supplies last-trade prices for tickers. The feed itself is
// an external collaborator; this package only defines the contract and two
// sources: a remote quote service and a static table for development and
// tests.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AI-Trading-APP/paper-trading/models"
	"github.com/shopspring/decimal"
)

// Source resolves the last-trade price for a ticker. Implementations must
// honor context cancellation; callers bound every lookup with a timeout.
type Source interface {
	LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Compile-time interface checks.
var (
	_ Source = (*HTTPSource)(nil)
	_ Source = (*StaticSource)(nil)
)

// HTTPSource fetches quotes from an external price service over HTTP.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource for the quote service at baseURL. The
// timeout caps each request so a stalled feed surfaces as PriceUnavailable
// instead of blocking an order forever.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// LastPrice requests GET {base}/quote?ticker=X. A 404 means the feed does
// not know the ticker; any other failure is reported as PriceUnavailable.
func (s *HTTPSource) LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/quote?ticker=%s", s.BaseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrUnknownTicker, ticker)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, fmt.Errorf("%w: quote service returned %d", models.ErrPriceUnavailable, resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}
	if quote.Price <= 0 {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote for %s", models.ErrPriceUnavailable, ticker)
	}
	return decimal.NewFromFloat(quote.Price), nil
}

// StaticSource serves prices from a fixed in-memory table.
type StaticSource struct {
	prices map[string]decimal.Decimal
}

// NewStaticSource copies the given price table.
func NewStaticSource(prices map[string]decimal.Decimal) *StaticSource {
	table := make(map[string]decimal.Decimal, len(prices))
	for ticker, price := range prices {
		table[ticker] = price
	}
	return &StaticSource{prices: table}
}

// DefaultStaticSource returns a source with a handful of well-known tickers,
// used when no price feed URL is configured.
func DefaultStaticSource() *StaticSource {
	return NewStaticSource(map[string]decimal.Decimal{
		"AAPL":  decimal.NewFromFloat(150.00),
		"MSFT":  decimal.NewFromFloat(300.00),
		"GOOGL": decimal.NewFromFloat(2800.00),
		"TSLA":  decimal.NewFromFloat(250.00),
		"AMZN":  decimal.NewFromFloat(3400.00),
	})
}

func (s *StaticSource) LastPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}
	price, ok := s.prices[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrUnknownTicker, ticker)
	}
	return price, nil
}
