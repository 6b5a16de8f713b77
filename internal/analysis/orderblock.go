package analysis

import (
	"math"
	"sort"

	"smc-analyzer/internal/binance"
)

// DetectOrderBlocks locates the origin candle behind each structural break:
// the last opposite-colored candle within the lookback window before a
// with-trend swing. Strength blends the candle's range against the trailing
// average (up to 50) with its volume against a fixed reference (up to 50).
// The strongest blocks are returned, best first.
func DetectOrderBlocks(candles []binance.Kline, swings []SwingPoint, trend TrendDirection, cfg Config) []OrderBlock {
	cfg = cfg.withDefaults()

	if len(candles) == 0 || trend == TrendNeutral {
		return nil
	}
	currentPrice := candles[len(candles)-1].Close

	var blocks []OrderBlock
	for _, swing := range swings {
		if trend == TrendUp && swing.Type != SwingHigh {
			continue
		}
		if trend == TrendDown && swing.Type != SwingLow {
			continue
		}

		if block, ok := findOriginCandle(candles, swing, currentPrice, cfg); ok {
			blocks = append(blocks, block)
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Strength > blocks[j].Strength
	})
	if len(blocks) > cfg.MaxOrderBlocks {
		blocks = blocks[:cfg.MaxOrderBlocks]
	}
	return blocks
}

func findOriginCandle(candles []binance.Kline, swing SwingPoint, currentPrice float64, cfg Config) (OrderBlock, bool) {
	floor := swing.Index - cfg.OrderBlockLookback
	if floor < 0 {
		floor = 0
	}

	for i := swing.Index - 1; i >= floor; i-- {
		c := candles[i]

		if swing.Type == SwingHigh {
			// Bullish break: origin is the last bearish candle before it
			if c.Close >= c.Open {
				continue
			}
			return OrderBlock{
				Index:     i,
				Type:      Bullish,
				Top:       c.High,
				Bottom:    c.Low,
				Midpoint:  (c.High + c.Low) / 2,
				Volume:    c.Volume,
				Strength:  blockStrength(candles, i, cfg),
				Confirmed: currentPrice > c.High,
			}, true
		}

		// Bearish break: origin is the last bullish candle before it
		if c.Close <= c.Open {
			continue
		}
		return OrderBlock{
			Index:     i,
			Type:      Bearish,
			Top:       c.High,
			Bottom:    c.Low,
			Midpoint:  (c.High + c.Low) / 2,
			Volume:    c.Volume,
			Strength:  blockStrength(candles, i, cfg),
			Confirmed: currentPrice < c.Low,
		}, true
	}

	return OrderBlock{}, false
}

// blockStrength scores the origin candle 0-100: half from its range versus
// the trailing-average range, half from its volume versus the reference.
func blockStrength(candles []binance.Kline, i int, cfg Config) float64 {
	start := i - cfg.RangeAverageWindow
	if start < 0 {
		start = 0
	}

	sizeScore := 0.0
	if count := i - start; count > 0 {
		sum := 0.0
		for _, c := range candles[start:i] {
			sum += math.Abs(c.High - c.Low)
		}
		if avg := sum / float64(count); avg > 0 {
			sizeScore = math.Abs(candles[i].High-candles[i].Low) / avg * 50
			if sizeScore > 50 {
				sizeScore = 50
			}
		}
	}

	volumeScore := candles[i].Volume / cfg.VolumeReference * 50
	if volumeScore > 50 {
		volumeScore = 50
	}

	strength := sizeScore + volumeScore
	if strength > 100 {
		strength = 100
	}
	return strength
}
