package analysis

import "math"

// DetectManipulationZones flags pairs of swing highs (or lows) whose prices
// sit within the equal-level tolerance of each other. Matching levels are
// resting liquidity and likely stop-hunt targets. Quadratic over the swing
// inventory, which stays in the tens for bounded candle windows.
func DetectManipulationZones(swings []SwingPoint, cfg Config) []ManipulationZone {
	cfg = cfg.withDefaults()

	highs, lows := splitSwings(swings)

	var zones []ManipulationZone
	zones = append(zones, equalLevelZones(highs, EqualHighs, cfg)...)
	zones = append(zones, equalLevelZones(lows, EqualLows, cfg)...)

	if len(zones) > cfg.MaxZones {
		zones = zones[len(zones)-cfg.MaxZones:]
	}
	return zones
}

func equalLevelZones(swings []SwingPoint, zoneType ZoneType, cfg Config) []ManipulationZone {
	var zones []ManipulationZone
	for i := 0; i < len(swings)-1; i++ {
		for j := i + 1; j < len(swings); j++ {
			diff := math.Abs(swings[i].Price-swings[j].Price) / swings[i].Price
			if diff < cfg.EqualLevelTolerance {
				zones = append(zones, ManipulationZone{
					Type:       zoneType,
					Price:      (swings[i].Price + swings[j].Price) / 2,
					StartIndex: swings[i].Index,
					EndIndex:   swings[j].Index,
					Danger:     cfg.ZoneDanger,
				})
			}
		}
	}
	return zones
}
