package analysis

import "smc-analyzer/internal/binance"

// Confidence ladder for the structure classifier. A detected regime starts
// at 60 and earns +20 for a confirmed BOS and +10 for repeated BOS, capped
// at 95. Insufficient structure stays at 30.
const (
	confidenceInsufficient = 30
	confidenceRegime       = 60
	confidenceBOSBonus     = 20
	confidenceRepeatBonus  = 10
	confidenceCap          = 95
)

// AnalyzeStructure classifies the trend regime of a candle sequence from its
// swing inventory and flags continuation (BOS) and reversal (CHOCH) events.
//
// The default mode walks the full swing sequence as a small state machine:
// explicit last-confirmed-high/low pointers, a with-trend break records a
// BOS, a counter-trend break records a CHOCH and flips the trend. The
// simplified 3-point trend window is available via Config.UseTrendHeuristic.
func AnalyzeStructure(candles []binance.Kline, swings []SwingPoint, cfg Config) StructureState {
	cfg = cfg.withDefaults()

	highs, lows := splitSwings(swings)
	if len(highs) < 2 || len(lows) < 2 {
		// Monotonic one-way series never confirm a swing, yet their
		// direction is unambiguous; classify from raw closes before
		// giving up as NEUTRAL.
		if state, ok := classifyMonotonic(candles); ok {
			return state
		}
		return StructureState{Trend: TrendNeutral, Confidence: confidenceInsufficient}
	}

	var state StructureState
	if cfg.UseTrendHeuristic {
		state = classifyThreePoint(highs, lows)
	} else {
		state = classifyStateMachine(swings)
	}

	state.Confidence = scoreConfidence(state)
	return state
}

// classifyStateMachine replays the swing sequence in index order, tracking
// the last confirmed high and low. Breaking the prior extreme with the trend
// is a BOS; breaking against it is a CHOCH and flips the regime.
func classifyStateMachine(swings []SwingPoint) StructureState {
	state := StructureState{Trend: TrendNeutral}

	var lastHigh, lastLow *SwingPoint
	for i := range swings {
		curr := &swings[i]

		switch curr.Type {
		case SwingHigh:
			if lastHigh != nil && curr.Price > lastHigh.Price {
				if state.Trend == TrendDown {
					t := curr.Time
					state.LastCHOCH = &t
					state.CHOCHCount++
				} else {
					t := curr.Time
					state.LastBOS = &t
					state.BOSCount++
				}
				state.Trend = TrendUp
			}
			lastHigh = curr
		case SwingLow:
			if lastLow != nil && curr.Price < lastLow.Price {
				if state.Trend == TrendUp {
					t := curr.Time
					state.LastCHOCH = &t
					state.CHOCHCount++
				} else {
					t := curr.Time
					state.LastBOS = &t
					state.BOSCount++
				}
				state.Trend = TrendDown
			}
			lastLow = curr
		}
	}

	return state
}

// classifyThreePoint applies the simplified heuristic: the most recent 3
// highs and 3 lows must both be strictly increasing (UP) or strictly
// decreasing (DOWN); anything else is NEUTRAL.
func classifyThreePoint(highs, lows []SwingPoint) StructureState {
	state := StructureState{Trend: TrendNeutral}

	recentHighs := lastN(highs, 3)
	recentLows := lastN(lows, 3)

	higherHighs := strictlyIncreasing(recentHighs)
	higherLows := strictlyIncreasing(recentLows)
	lowerHighs := strictlyDecreasing(recentHighs)
	lowerLows := strictlyDecreasing(recentLows)

	switch {
	case higherHighs && higherLows:
		state.Trend = TrendUp

		lastHigh := recentHighs[len(recentHighs)-1]
		prevHigh := recentHighs[len(recentHighs)-2]
		if lastHigh.Price > prevHigh.Price {
			t := lastHigh.Time
			state.LastBOS = &t
			state.BOSCount++
		}

		lastLow := recentLows[len(recentLows)-1]
		prevLow := recentLows[len(recentLows)-2]
		if lastLow.Price < prevLow.Price {
			t := lastLow.Time
			state.LastCHOCH = &t
			state.CHOCHCount++
		}
	case lowerHighs && lowerLows:
		state.Trend = TrendDown

		lastLow := recentLows[len(recentLows)-1]
		prevLow := recentLows[len(recentLows)-2]
		if lastLow.Price < prevLow.Price {
			t := lastLow.Time
			state.LastBOS = &t
			state.BOSCount++
		}

		lastHigh := recentHighs[len(recentHighs)-1]
		prevHigh := recentHighs[len(recentHighs)-2]
		if lastHigh.Price > prevHigh.Price {
			t := lastHigh.Time
			state.LastCHOCH = &t
			state.CHOCHCount++
		}
	}

	return state
}

// classifyMonotonic handles series whose closes only ever step one way.
// Such data carries an unambiguous regime but produces no confirmable
// swings. The final candle is treated as the running structural break.
func classifyMonotonic(candles []binance.Kline) (StructureState, bool) {
	if len(candles) < 3 {
		return StructureState{}, false
	}

	upSteps, downSteps := 0, 0
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			upSteps++
		case candles[i].Close < candles[i-1].Close:
			downSteps++
		}
	}

	last := candles[len(candles)-1].OpenTime
	if upSteps > 0 && downSteps == 0 {
		return StructureState{
			Trend:      TrendUp,
			LastBOS:    &last,
			BOSCount:   1,
			Confidence: confidenceRegime + confidenceBOSBonus,
		}, true
	}
	if downSteps > 0 && upSteps == 0 {
		return StructureState{
			Trend:      TrendDown,
			LastBOS:    &last,
			BOSCount:   1,
			Confidence: confidenceRegime + confidenceBOSBonus,
		}, true
	}

	return StructureState{}, false
}

func scoreConfidence(state StructureState) int {
	if state.Trend == TrendNeutral {
		return confidenceInsufficient
	}
	confidence := confidenceRegime
	if state.LastBOS != nil {
		confidence += confidenceBOSBonus
	}
	if state.BOSCount > 1 {
		confidence += confidenceRepeatBonus
	}
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence
}

func lastN(swings []SwingPoint, n int) []SwingPoint {
	if len(swings) <= n {
		return swings
	}
	return swings[len(swings)-n:]
}

func strictlyIncreasing(swings []SwingPoint) bool {
	for i := 1; i < len(swings); i++ {
		if swings[i].Price <= swings[i-1].Price {
			return false
		}
	}
	return true
}

func strictlyDecreasing(swings []SwingPoint) bool {
	for i := 1; i < len(swings); i++ {
		if swings[i].Price >= swings[i-1].Price {
			return false
		}
	}
	return true
}
