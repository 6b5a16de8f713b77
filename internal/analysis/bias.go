package analysis

import "fmt"

// DetermineDominantBias derives the higher-timeframe verdict from the two
// largest reference timeframes (referenceTFs is ordered largest first).
// Agreement with confirmed BOS on both is STRONG; agreement without is
// MODERATE; opposing trends are MIXED/WEAK; anything else NEUTRAL/NONE.
func DetermineDominantBias(states map[string]*StructureState, referenceTFs []string) DominantBias {
	if len(referenceTFs) < 2 {
		return DominantBias{
			Bias:      BiasNeutral,
			Strength:  StrengthNone,
			Reasoning: "Insufficient reference timeframes",
		}
	}

	primaryTF, secondaryTF := referenceTFs[0], referenceTFs[1]
	primary := stateOrNeutral(states, primaryTF)
	secondary := stateOrNeutral(states, secondaryTF)

	switch {
	case primary.Trend == TrendUp && secondary.Trend == TrendUp:
		if primary.LastBOS != nil && secondary.LastBOS != nil {
			return DominantBias{
				Bias:      BiasUp,
				Strength:  StrengthStrong,
				Reasoning: fmt.Sprintf("%s and %s in uptrend with confirmed BOS", primaryTF, secondaryTF),
			}
		}
		return DominantBias{
			Bias:      BiasUp,
			Strength:  StrengthModerate,
			Reasoning: fmt.Sprintf("%s and %s in uptrend, awaiting BOS to confirm strength", primaryTF, secondaryTF),
		}

	case primary.Trend == TrendDown && secondary.Trend == TrendDown:
		if primary.LastBOS != nil && secondary.LastBOS != nil {
			return DominantBias{
				Bias:      BiasDown,
				Strength:  StrengthStrong,
				Reasoning: fmt.Sprintf("%s and %s in downtrend with confirmed BOS", primaryTF, secondaryTF),
			}
		}
		return DominantBias{
			Bias:      BiasDown,
			Strength:  StrengthModerate,
			Reasoning: fmt.Sprintf("%s and %s in downtrend, awaiting BOS to confirm strength", primaryTF, secondaryTF),
		}

	case primary.Trend == TrendUp && secondary.Trend == TrendDown,
		primary.Trend == TrendDown && secondary.Trend == TrendUp:
		return DominantBias{
			Bias:      BiasMixed,
			Strength:  StrengthWeak,
			Reasoning: fmt.Sprintf("Divergence between %s and %s, wait for alignment", primaryTF, secondaryTF),
		}
	}

	return DominantBias{
		Bias:      BiasNeutral,
		Strength:  StrengthNone,
		Reasoning: "No clear structure on the higher timeframes",
	}
}

func stateOrNeutral(states map[string]*StructureState, tf string) *StructureState {
	if s, ok := states[tf]; ok && s != nil {
		return s
	}
	return &StructureState{Trend: TrendNeutral, Confidence: confidenceInsufficient}
}

// ContextualizeTrend interprets the working timeframe's local structure
// against the dominant bias. Alignment means continuation; divergence
// without a CHOCH is a pullback entry; divergence with a CHOCH is a
// possible reversal and never tradable. A MIXED or NEUTRAL bias disables
// trading regardless of the local state.
func ContextualizeTrend(local StructureState, bias DominantBias) (interpretation, reasoning string, aligned, tradable bool) {
	aligned = string(local.Trend) == string(bias.Bias)

	switch bias.Bias {
	case BiasUp:
		switch local.Trend {
		case TrendUp:
			interpretation = "Full alignment, continuation higher expected"
			tradable = true
		case TrendDown:
			if local.LastCHOCH != nil {
				interpretation = "CHOCH detected, possible reversal or deep correction, wait for confirmation"
			} else {
				interpretation = "Pullback into buy zone, ideal long setup"
				tradable = true
			}
		default:
			interpretation = "Consolidation, waiting for direction"
		}

	case BiasDown:
		switch local.Trend {
		case TrendDown:
			interpretation = "Full alignment, continuation lower expected"
			tradable = true
		case TrendUp:
			if local.LastCHOCH != nil {
				interpretation = "CHOCH against the higher timeframe trend, elevated risk, wait for confirmation"
			} else {
				interpretation = "Pullback into sell zone, ideal short setup"
				tradable = true
			}
		default:
			interpretation = "Consolidation, waiting for direction"
		}

	default:
		if local.LastCHOCH != nil {
			interpretation = "Higher timeframe structure undefined with CHOCH detected, avoid trading"
		} else {
			interpretation = "Waiting for higher timeframe alignment before trading"
		}
	}

	if aligned {
		reasoning = "Local structure follows the higher timeframe direction"
	} else {
		reasoning = "Local structure diverges from the higher timeframes, may be correction or reversal"
	}
	return interpretation, reasoning, aligned, tradable
}
