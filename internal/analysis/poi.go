package analysis

import (
	"fmt"
	"math"
	"sort"

	"smc-analyzer/internal/binance"
)

// SynthesizePOIs fuses the detector outputs into ranked trade setups. Each
// unfilled FVG passes through two hard gates (dominant-bias agreement and
// premium/discount placement), then accumulates confluence: order block
// overlap adds, manipulation proximity subtracts, manipulation clearance
// adds. Setups below the confluence floor are dropped; survivors get an
// entry, a buffered stop and a dynamic target, and are returned best first.
func SynthesizePOIs(
	candles []binance.Kline,
	fvgs []FVG,
	orderBlocks []OrderBlock,
	rangePos RangePosition,
	bias DominantBias,
	zones []ManipulationZone,
	swings []SwingPoint,
	cfg Config,
) []POI {
	cfg = cfg.withDefaults()

	var pois []POI
	for _, fvg := range fvgs {
		if fvg.Type == Bullish && bias.Bias != BiasUp {
			continue
		}
		if fvg.Type == Bearish && bias.Bias != BiasDown {
			continue
		}

		if fvg.Type == Bullish && rangePos.Status != StatusDiscount {
			continue
		}
		if fvg.Type == Bearish && rangePos.Status != StatusPremium {
			continue
		}

		score := cfg.BaseScore
		var factors []string

		if fvg.Type == Bullish {
			factors = append(factors, "Bullish FVG", "Discount zone", "Bullish bias")
		} else {
			factors = append(factors, "Bearish FVG", "Premium zone", "Bearish bias")
		}

		nearbyOB := findConfluentOrderBlock(orderBlocks, fvg, cfg)
		if nearbyOB != nil {
			factors = append(factors, fmt.Sprintf("Confluent order block (%d%%)", int(math.Round(nearbyOB.Strength))))
			score += cfg.OrderBlockBonus
		}

		if nearManipulation(zones, fvg, cfg) {
			score -= cfg.ManipulationPenalty
		} else {
			factors = append(factors, "Clear of manipulation")
			score += cfg.ClearManipulationBonus
		}

		if score < cfg.MinConfluenceScore {
			continue
		}

		entry := fvg.Midpoint
		if nearbyOB != nil {
			entry = (fvg.Midpoint + nearbyOB.Midpoint) / 2
		}

		stopLoss := poiStopLoss(fvg, nearbyOB, cfg)
		plan := CalculateDynamicTarget(entry, stopLoss, fvg.Type, swings, candles, cfg)
		factors = append(factors, fmt.Sprintf("Dynamic RR 1:%.1f", plan.RiskReward))

		pois = append(pois, POI{
			ID:              fmt.Sprintf("poi_%d", fvg.Index),
			Type:            fvg.Type,
			ConfluenceScore: score,
			Factors:         factors,
			Price:           entry,
			Entry:           entry,
			StopLoss:        stopLoss,
			TakeProfit:      plan.TakeProfit,
			RiskReward:      plan.RiskReward,
			TargetSwing:     plan.TargetSwing,
		})
	}

	sort.SliceStable(pois, func(i, j int) bool {
		return pois[i].ConfluenceScore > pois[j].ConfluenceScore
	})
	if len(pois) > cfg.MaxPOIs {
		pois = pois[:cfg.MaxPOIs]
	}
	return pois
}

func findConfluentOrderBlock(blocks []OrderBlock, fvg FVG, cfg Config) *OrderBlock {
	for i := range blocks {
		if blocks[i].Type != fvg.Type {
			continue
		}
		if math.Abs(blocks[i].Midpoint-fvg.Midpoint)/fvg.Midpoint < cfg.OrderBlockProximity {
			return &blocks[i]
		}
	}
	return nil
}

func nearManipulation(zones []ManipulationZone, fvg FVG, cfg Config) bool {
	for _, zone := range zones {
		if math.Abs(zone.Price-fvg.Midpoint)/fvg.Midpoint < cfg.ManipulationProximity {
			return true
		}
	}
	return false
}

// poiStopLoss places the stop beyond the tighter of the gap and order block
// boundaries, buffered by a fraction of the gap size.
func poiStopLoss(fvg FVG, ob *OrderBlock, cfg Config) float64 {
	buffer := fvg.Size * cfg.StopLossBuffer

	if fvg.Type == Bullish {
		floor := fvg.Bottom
		if ob != nil && ob.Bottom < floor {
			floor = ob.Bottom
		}
		return floor - buffer
	}

	ceiling := fvg.Top
	if ob != nil && ob.Top > ceiling {
		ceiling = ob.Top
	}
	return ceiling + buffer
}
