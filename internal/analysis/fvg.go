package analysis

import "smc-analyzer/internal/binance"

// DetectFVGs finds three-candle imbalances. A bullish gap exists at interior
// candle i when the prior candle's high sits below the next candle's low; a
// bearish gap when the prior low sits above the next high. A gap counts as
// filled once the latest close lies inside it; only the most recent unfilled
// gaps are returned, newest last.
func DetectFVGs(candles []binance.Kline, cfg Config) []FVG {
	cfg = cfg.withDefaults()

	if len(candles) < 3 {
		return nil
	}
	currentPrice := candles[len(candles)-1].Close

	var unfilled []FVG
	for i := 1; i < len(candles)-1; i++ {
		prev := candles[i-1]
		next := candles[i+1]

		if prev.High < next.Low {
			fvg := FVG{
				Index:    i,
				Type:     Bullish,
				Top:      next.Low,
				Bottom:   prev.High,
				Midpoint: (prev.High + next.Low) / 2,
				Size:     next.Low - prev.High,
				IsFilled: currentPrice >= prev.High && currentPrice <= next.Low,
			}
			if !fvg.IsFilled {
				unfilled = append(unfilled, fvg)
			}
		}

		if prev.Low > next.High {
			fvg := FVG{
				Index:    i,
				Type:     Bearish,
				Top:      prev.Low,
				Bottom:   next.High,
				Midpoint: (next.High + prev.Low) / 2,
				Size:     prev.Low - next.High,
				IsFilled: currentPrice >= next.High && currentPrice <= prev.Low,
			}
			if !fvg.IsFilled {
				unfilled = append(unfilled, fvg)
			}
		}
	}

	if len(unfilled) > cfg.MaxFVGs {
		unfilled = unfilled[len(unfilled)-cfg.MaxFVGs:]
	}
	return unfilled
}
