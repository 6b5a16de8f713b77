package analysis

import "smc-analyzer/internal/binance"

// DetectSwingPoints scans a candle sequence for confirmed local extrema. A
// candle is a swing high iff its high strictly exceeds every high in the
// surrounding [i-left, i+right] window; symmetric for swing lows. Equal
// extremes within the window disqualify the candidate, so flat stretches
// produce no swings. Series shorter than left+right+1 yield an empty list.
func DetectSwingPoints(candles []binance.Kline, left, right int) []SwingPoint {
	var swings []SwingPoint

	for i := left; i < len(candles)-right; i++ {
		current := candles[i]
		isSwingHigh := true
		isSwingLow := true

		for j := i - left; j <= i+right; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= current.High {
				isSwingHigh = false
			}
			if candles[j].Low <= current.Low {
				isSwingLow = false
			}
			if !isSwingHigh && !isSwingLow {
				break
			}
		}

		if isSwingHigh {
			swings = append(swings, SwingPoint{
				Index: i,
				Price: current.High,
				Type:  SwingHigh,
				Time:  current.OpenTime,
			})
		}
		if isSwingLow {
			swings = append(swings, SwingPoint{
				Index: i,
				Price: current.Low,
				Type:  SwingLow,
				Time:  current.OpenTime,
			})
		}
	}

	return swings
}

// splitSwings separates a swing inventory into highs and lows, preserving
// index order.
func splitSwings(swings []SwingPoint) (highs, lows []SwingPoint) {
	for _, s := range swings {
		if s.Type == SwingHigh {
			highs = append(highs, s)
		} else {
			lows = append(lows, s)
		}
	}
	return highs, lows
}
