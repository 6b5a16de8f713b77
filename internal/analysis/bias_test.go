package analysis

import "testing"

func tsPtr(v int64) *int64 { return &v }

// TestDominantBiasTable walks the verdict table over the two reference
// timeframes
func TestDominantBiasTable(t *testing.T) {
	refTFs := []string{"1d", "4h", "1h"}

	tests := []struct {
		name         string
		daily        *StructureState
		fourHour     *StructureState
		wantBias     BiasDirection
		wantStrength BiasStrength
	}{
		{
			name:         "both up with BOS",
			daily:        &StructureState{Trend: TrendUp, LastBOS: tsPtr(1000)},
			fourHour:     &StructureState{Trend: TrendUp, LastBOS: tsPtr(2000)},
			wantBias:     BiasUp,
			wantStrength: StrengthStrong,
		},
		{
			name:         "both up without BOS",
			daily:        &StructureState{Trend: TrendUp},
			fourHour:     &StructureState{Trend: TrendUp, LastBOS: tsPtr(2000)},
			wantBias:     BiasUp,
			wantStrength: StrengthModerate,
		},
		{
			name:         "both down with BOS",
			daily:        &StructureState{Trend: TrendDown, LastBOS: tsPtr(1000)},
			fourHour:     &StructureState{Trend: TrendDown, LastBOS: tsPtr(2000)},
			wantBias:     BiasDown,
			wantStrength: StrengthStrong,
		},
		{
			name:         "both down without BOS",
			daily:        &StructureState{Trend: TrendDown, LastBOS: tsPtr(1000)},
			fourHour:     &StructureState{Trend: TrendDown},
			wantBias:     BiasDown,
			wantStrength: StrengthModerate,
		},
		{
			name:         "opposed trends",
			daily:        &StructureState{Trend: TrendUp, LastBOS: tsPtr(1000)},
			fourHour:     &StructureState{Trend: TrendDown, LastBOS: tsPtr(2000)},
			wantBias:     BiasMixed,
			wantStrength: StrengthWeak,
		},
		{
			name:         "opposed trends reversed",
			daily:        &StructureState{Trend: TrendDown},
			fourHour:     &StructureState{Trend: TrendUp},
			wantBias:     BiasMixed,
			wantStrength: StrengthWeak,
		},
		{
			name:         "primary neutral",
			daily:        &StructureState{Trend: TrendNeutral},
			fourHour:     &StructureState{Trend: TrendUp, LastBOS: tsPtr(2000)},
			wantBias:     BiasNeutral,
			wantStrength: StrengthNone,
		},
		{
			name:         "both neutral",
			daily:        &StructureState{Trend: TrendNeutral},
			fourHour:     &StructureState{Trend: TrendNeutral},
			wantBias:     BiasNeutral,
			wantStrength: StrengthNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			states := map[string]*StructureState{
				"1d": tc.daily,
				"4h": tc.fourHour,
			}

			bias := DetermineDominantBias(states, refTFs)

			if bias.Bias != tc.wantBias {
				t.Errorf("Expected bias %s, got %s", tc.wantBias, bias.Bias)
			}
			if bias.Strength != tc.wantStrength {
				t.Errorf("Expected strength %s, got %s", tc.wantStrength, bias.Strength)
			}
			if bias.Reasoning == "" {
				t.Error("Expected a reasoning string")
			}
		})
	}
}

// TestDominantBiasMissingTimeframe verifies an absent reference state is
// treated as NEUTRAL rather than panicking
func TestDominantBiasMissingTimeframe(t *testing.T) {
	states := map[string]*StructureState{
		"4h": {Trend: TrendUp, LastBOS: tsPtr(2000)},
	}

	bias := DetermineDominantBias(states, []string{"1d", "4h", "1h"})

	if bias.Bias != BiasNeutral || bias.Strength != StrengthNone {
		t.Errorf("Expected NEUTRAL/NONE with missing primary, got %s/%s", bias.Bias, bias.Strength)
	}
}

// TestDominantBiasTooFewReferences verifies the degenerate configuration
func TestDominantBiasTooFewReferences(t *testing.T) {
	bias := DetermineDominantBias(nil, []string{"1d"})

	if bias.Bias != BiasNeutral || bias.Strength != StrengthNone {
		t.Errorf("Expected NEUTRAL/NONE, got %s/%s", bias.Bias, bias.Strength)
	}
}

// TestContextualizeTrend covers the interpretation scenarios
func TestContextualizeTrend(t *testing.T) {
	tests := []struct {
		name         string
		local        StructureState
		bias         DominantBias
		wantAligned  bool
		wantTradable bool
	}{
		{
			name:         "full alignment up",
			local:        StructureState{Trend: TrendUp},
			bias:         DominantBias{Bias: BiasUp, Strength: StrengthStrong},
			wantAligned:  true,
			wantTradable: true,
		},
		{
			name:         "pullback long",
			local:        StructureState{Trend: TrendDown},
			bias:         DominantBias{Bias: BiasUp, Strength: StrengthStrong},
			wantAligned:  false,
			wantTradable: true,
		},
		{
			name:         "choch against uptrend bias",
			local:        StructureState{Trend: TrendDown, LastCHOCH: tsPtr(5000)},
			bias:         DominantBias{Bias: BiasUp, Strength: StrengthStrong},
			wantAligned:  false,
			wantTradable: false,
		},
		{
			name:         "full alignment down",
			local:        StructureState{Trend: TrendDown},
			bias:         DominantBias{Bias: BiasDown, Strength: StrengthModerate},
			wantAligned:  true,
			wantTradable: true,
		},
		{
			name:         "pullback short",
			local:        StructureState{Trend: TrendUp},
			bias:         DominantBias{Bias: BiasDown, Strength: StrengthStrong},
			wantAligned:  false,
			wantTradable: true,
		},
		{
			name:         "choch against downtrend bias",
			local:        StructureState{Trend: TrendUp, LastCHOCH: tsPtr(5000)},
			bias:         DominantBias{Bias: BiasDown, Strength: StrengthStrong},
			wantAligned:  false,
			wantTradable: false,
		},
		{
			name:         "local consolidation",
			local:        StructureState{Trend: TrendNeutral},
			bias:         DominantBias{Bias: BiasUp, Strength: StrengthModerate},
			wantAligned:  false,
			wantTradable: false,
		},
		{
			name:         "mixed bias never tradable",
			local:        StructureState{Trend: TrendUp},
			bias:         DominantBias{Bias: BiasMixed, Strength: StrengthWeak},
			wantAligned:  false,
			wantTradable: false,
		},
		{
			name:         "neutral bias never tradable",
			local:        StructureState{Trend: TrendDown},
			bias:         DominantBias{Bias: BiasNeutral, Strength: StrengthNone},
			wantAligned:  false,
			wantTradable: false,
		},
		{
			name:         "neutral alignment not tradable",
			local:        StructureState{Trend: TrendNeutral},
			bias:         DominantBias{Bias: BiasNeutral, Strength: StrengthNone},
			wantAligned:  true,
			wantTradable: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			interpretation, reasoning, aligned, tradable := ContextualizeTrend(tc.local, tc.bias)

			if aligned != tc.wantAligned {
				t.Errorf("Expected aligned=%v, got %v", tc.wantAligned, aligned)
			}
			if tradable != tc.wantTradable {
				t.Errorf("Expected tradable=%v, got %v", tc.wantTradable, tradable)
			}
			if interpretation == "" || reasoning == "" {
				t.Error("Expected non-empty interpretation and reasoning")
			}
		})
	}
}
