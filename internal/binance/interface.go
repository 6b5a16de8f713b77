package binance

import "context"

// KlineClient defines the market data operations the analysis engine consumes.
type KlineClient interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]Kline, error)
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Ensure both Client and MockClient implement KlineClient
var _ KlineClient = (*Client)(nil)
var _ KlineClient = (*MockClient)(nil)
