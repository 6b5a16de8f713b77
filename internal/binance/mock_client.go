package binance

import (
	"context"
	"math"
	"time"
)

// MockClient provides deterministic simulated market data for development
// and testing. Series are reproducible per (symbol, interval).
type MockClient struct {
	prices map[string]float64
}

func NewMockClient() *MockClient {
	return &MockClient{
		prices: map[string]float64{
			"BTCUSDT": 104500.00,
			"ETHUSDT": 3900.00,
			"BNBUSDT": 710.00,
			"SOLUSDT": 220.00,
			"XRPUSDT": 2.35,
		},
	}
}

func (mc *MockClient) basePrice(symbol string) float64 {
	if p, ok := mc.prices[symbol]; ok {
		return p
	}
	// Derive a stable price for unknown symbols
	var h uint64
	for _, c := range symbol {
		h = h*31 + uint64(c)
	}
	return 10 + float64(h%100000)/100
}

// GetKlines generates a gently trending synthetic series ending at the
// current bar boundary.
func (mc *MockClient) GetKlines(_ context.Context, symbol, interval string, limit int) ([]Kline, error) {
	step := IntervalDuration(interval)
	if step == 0 {
		return nil, &ExchangeError{StatusCode: 400, Code: -1120, Message: "Invalid interval."}
	}

	base := mc.basePrice(symbol)
	end := time.Now().Truncate(step)
	start := end.Add(-time.Duration(limit) * step)

	klines := make([]Kline, limit)
	for i := 0; i < limit; i++ {
		// Upward drift with a sine swing cycle so swing detection has structure
		drift := base * 0.0004 * float64(i)
		wave := base * 0.004 * math.Sin(float64(i)/6)
		open := base + drift + wave
		close := base + drift + base*0.004*math.Sin(float64(i+1)/6)

		high := math.Max(open, close) + base*0.001
		low := math.Min(open, close) - base*0.001

		openTime := start.Add(time.Duration(i) * step)
		klines[i] = Kline{
			OpenTime:  openTime.UnixMilli(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1000 + 50*math.Abs(math.Sin(float64(i)/3))*1000,
			CloseTime: openTime.Add(step).UnixMilli() - 1,
		}
	}

	return klines, nil
}

// GetCurrentPrice returns the latest synthetic close for the symbol.
func (mc *MockClient) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	klines, err := mc.GetKlines(ctx, symbol, "1m", 2)
	if err != nil {
		return 0, err
	}
	return klines[len(klines)-1].Close, nil
}

// IntervalDuration maps a Binance interval string to its bar duration,
// returning 0 for unknown intervals.
func IntervalDuration(interval string) time.Duration {
	switch interval {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "6h":
		return 6 * time.Hour
	case "8h":
		return 8 * time.Hour
	case "12h":
		return 12 * time.Hour
	case "1d":
		return 24 * time.Hour
	case "3d":
		return 72 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}
