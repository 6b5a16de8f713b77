package analysis

import "smc-analyzer/internal/binance"

// CalculateRangePosition locates the latest close within the range spanned
// by the most recent 3 swing highs and 3 swing lows. Without both sides of
// the range the result degenerates to a 50% equilibrium centered on price.
func CalculateRangePosition(candles []binance.Kline, swings []SwingPoint, cfg Config) RangePosition {
	cfg = cfg.withDefaults()

	currentPrice := 0.0
	if len(candles) > 0 {
		currentPrice = candles[len(candles)-1].Close
	}

	highs, lows := splitSwings(swings)
	recentHighs := lastN(highs, 3)
	recentLows := lastN(lows, 3)

	if len(recentHighs) == 0 || len(recentLows) == 0 {
		return RangePosition{
			CurrentPrice: currentPrice,
			RangeHigh:    currentPrice,
			RangeLow:     currentPrice,
			Percentage:   50,
			Status:       StatusEquilibrium,
		}
	}

	rangeHigh := recentHighs[0].Price
	for _, h := range recentHighs[1:] {
		if h.Price > rangeHigh {
			rangeHigh = h.Price
		}
	}
	rangeLow := recentLows[0].Price
	for _, l := range recentLows[1:] {
		if l.Price < rangeLow {
			rangeLow = l.Price
		}
	}

	percentage := 50.0
	if rangeSize := rangeHigh - rangeLow; rangeSize > 0 {
		percentage = (currentPrice - rangeLow) / rangeSize * 100
		if percentage < 0 {
			percentage = 0
		} else if percentage > 100 {
			percentage = 100
		}
	}

	status := StatusEquilibrium
	switch {
	case percentage >= cfg.PremiumThreshold:
		status = StatusPremium
	case percentage <= cfg.DiscountThreshold:
		status = StatusDiscount
	}

	return RangePosition{
		CurrentPrice: currentPrice,
		RangeHigh:    rangeHigh,
		RangeLow:     rangeLow,
		Percentage:   percentage,
		Status:       status,
	}
}
