package analysis

import (
	"math"
	"sort"

	"smc-analyzer/internal/binance"
)

// CalculateDynamicTarget searches the swing inventory for a structurally
// meaningful take-profit. For a bullish plan it scans swing highs above the
// entry in ascending price order, proposing a target just short of each
// level, and accepts the first whose reward/risk lands inside the configured
// window. When no swing qualifies it falls back to a fixed-multiple target;
// the nearest swing is still recorded for display, but the fallback price
// does not depend on it.
func CalculateDynamicTarget(entry, stopLoss float64, direction Direction, swings []SwingPoint, candles []binance.Kline, cfg Config) TargetPlan {
	cfg = cfg.withDefaults()

	risk := math.Abs(entry - stopLoss)

	candidates := targetCandidates(swings, direction, entry)
	if risk > 0 {
		for _, swing := range candidates {
			var target float64
			if direction == Bullish {
				target = swing.Price * (1 - cfg.TargetMargin)
			} else {
				target = swing.Price * (1 + cfg.TargetMargin)
			}

			rr := math.Abs(target-entry) / risk
			if rr >= cfg.MinRiskReward && rr <= cfg.MaxRiskReward {
				return TargetPlan{
					TakeProfit: target,
					RiskReward: rr,
					TargetSwing: TargetSwing{
						Type:  swing.Type,
						Price: swing.Price,
						Index: swing.Index,
					},
				}
			}
		}
	}

	// Conservative fixed-multiple fallback
	fallback := entry + risk*cfg.FallbackRR
	if direction == Bearish {
		fallback = entry - risk*cfg.FallbackRR
	}

	plan := TargetPlan{TakeProfit: fallback, RiskReward: cfg.FallbackRR}
	if len(candidates) > 0 {
		nearest := candidates[0]
		plan.TargetSwing = TargetSwing{Type: nearest.Type, Price: nearest.Price, Index: nearest.Index}
	} else {
		swingType := SwingHigh
		if direction == Bearish {
			swingType = SwingLow
		}
		plan.TargetSwing = TargetSwing{Type: swingType, Price: fallback, Index: len(candles) - 1}
	}
	return plan
}

// targetCandidates returns the swings on the profit side of the entry,
// nearest price first.
func targetCandidates(swings []SwingPoint, direction Direction, entry float64) []SwingPoint {
	var candidates []SwingPoint
	for _, s := range swings {
		if direction == Bullish && s.Type == SwingHigh && s.Price > entry {
			candidates = append(candidates, s)
		}
		if direction == Bearish && s.Type == SwingLow && s.Price < entry {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if direction == Bullish {
			return candidates[i].Price < candidates[j].Price
		}
		return candidates[i].Price > candidates[j].Price
	})
	return candidates
}
