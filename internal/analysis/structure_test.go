package analysis

import (
	"testing"

	"smc-analyzer/internal/binance"
)

// enough candles that the swing-count gate passes; the classifier only
// reads closes for the monotonic fallback
func rangingCandles() []binance.Kline {
	return []binance.Kline{
		{Close: 100, OpenTime: 1000},
		{Close: 102, OpenTime: 2000},
		{Close: 99, OpenTime: 3000},
		{Close: 101, OpenTime: 4000},
	}
}

// TestStateMachineUptrend walks an uptrend swing sequence through the
// classifier and checks the BOS bookkeeping
func TestStateMachineUptrend(t *testing.T) {
	swings := []SwingPoint{
		{Index: 1, Price: 100, Type: SwingLow, Time: 1000},
		{Index: 2, Price: 110, Type: SwingHigh, Time: 2000},
		{Index: 3, Price: 105, Type: SwingLow, Time: 3000},
		// Breaks the prior high: first BOS
		{Index: 4, Price: 120, Type: SwingHigh, Time: 4000},
		{Index: 5, Price: 112, Type: SwingLow, Time: 5000},
		// Breaks again: second BOS
		{Index: 6, Price: 130, Type: SwingHigh, Time: 6000},
	}

	state := AnalyzeStructure(rangingCandles(), swings, Config{})

	if state.Trend != TrendUp {
		t.Errorf("Expected UP trend, got %s", state.Trend)
	}
	if state.BOSCount != 2 {
		t.Errorf("Expected 2 BOS events, got %d", state.BOSCount)
	}
	if state.LastBOS == nil || *state.LastBOS != 6000 {
		t.Errorf("Expected LastBOS at 6000, got %v", state.LastBOS)
	}
	if state.CHOCHCount != 0 {
		t.Errorf("Expected no CHOCH, got %d", state.CHOCHCount)
	}
	// Regime (60) + BOS (20) + repeat BOS (10)
	if state.Confidence != 90 {
		t.Errorf("Expected confidence 90, got %d", state.Confidence)
	}
}

// TestStateMachineCHOCHFlipsTrend verifies a counter-trend break records a
// CHOCH and reverses the regime
func TestStateMachineCHOCHFlipsTrend(t *testing.T) {
	swings := []SwingPoint{
		{Index: 1, Price: 100, Type: SwingLow, Time: 1000},
		{Index: 2, Price: 110, Type: SwingHigh, Time: 2000},
		{Index: 3, Price: 105, Type: SwingLow, Time: 3000},
		{Index: 4, Price: 120, Type: SwingHigh, Time: 4000},
		{Index: 5, Price: 112, Type: SwingLow, Time: 5000},
		// Breaks below the prior low against the uptrend
		{Index: 6, Price: 95, Type: SwingLow, Time: 6000},
	}

	state := AnalyzeStructure(rangingCandles(), swings, Config{})

	if state.Trend != TrendDown {
		t.Errorf("Expected trend flip to DOWN, got %s", state.Trend)
	}
	if state.CHOCHCount != 1 {
		t.Errorf("Expected 1 CHOCH, got %d", state.CHOCHCount)
	}
	if state.LastCHOCH == nil || *state.LastCHOCH != 6000 {
		t.Errorf("Expected LastCHOCH at 6000, got %v", state.LastCHOCH)
	}
}

// TestStructureInsufficientSwings verifies ranging data without enough swings
// classifies NEUTRAL at the floor confidence
func TestStructureInsufficientSwings(t *testing.T) {
	swings := []SwingPoint{
		{Index: 2, Price: 110, Type: SwingHigh, Time: 2000},
		{Index: 4, Price: 100, Type: SwingLow, Time: 4000},
	}

	state := AnalyzeStructure(rangingCandles(), swings, Config{})

	if state.Trend != TrendNeutral {
		t.Errorf("Expected NEUTRAL, got %s", state.Trend)
	}
	if state.Confidence != 30 {
		t.Errorf("Expected confidence 30, got %d", state.Confidence)
	}
	if state.LastBOS != nil || state.LastCHOCH != nil {
		t.Error("Expected no structural events")
	}
}

// TestStructureMonotonicAscending verifies a one-way series classifies from
// raw closes even though no swing ever confirms
func TestStructureMonotonicAscending(t *testing.T) {
	var candles []binance.Kline
	for i := 0; i < 20; i++ {
		candles = append(candles, binance.Kline{
			Close:    100 + float64(i),
			OpenTime: int64(1000 * (i + 1)),
		})
	}

	state := AnalyzeStructure(candles, nil, Config{})

	if state.Trend != TrendUp {
		t.Fatalf("Expected UP for ascending closes, got %s", state.Trend)
	}
	if state.LastBOS == nil || *state.LastBOS != 20000 {
		t.Errorf("Expected LastBOS at the final candle, got %v", state.LastBOS)
	}
	if state.Confidence != 80 {
		t.Errorf("Expected confidence 80, got %d", state.Confidence)
	}
}

// TestStructureMonotonicDescending is the mirror case
func TestStructureMonotonicDescending(t *testing.T) {
	var candles []binance.Kline
	for i := 0; i < 20; i++ {
		candles = append(candles, binance.Kline{
			Close:    100 - float64(i),
			OpenTime: int64(1000 * (i + 1)),
		})
	}

	state := AnalyzeStructure(candles, nil, Config{})

	if state.Trend != TrendDown {
		t.Fatalf("Expected DOWN for descending closes, got %s", state.Trend)
	}
	if state.LastBOS == nil {
		t.Error("Expected a running BOS marker")
	}
}

// TestStructureFlatSeries verifies flat data stays NEUTRAL
func TestStructureFlatSeries(t *testing.T) {
	var candles []binance.Kline
	for i := 0; i < 20; i++ {
		candles = append(candles, binance.Kline{Close: 100, OpenTime: int64(1000 * (i + 1))})
	}

	state := AnalyzeStructure(candles, nil, Config{})

	if state.Trend != TrendNeutral {
		t.Errorf("Expected NEUTRAL for flat closes, got %s", state.Trend)
	}
	if state.Confidence != 30 {
		t.Errorf("Expected confidence 30, got %d", state.Confidence)
	}
}

// TestThreePointHeuristic exercises the simplified trend window mode
func TestThreePointHeuristic(t *testing.T) {
	swings := []SwingPoint{
		{Index: 1, Price: 100, Type: SwingLow, Time: 1000},
		{Index: 2, Price: 110, Type: SwingHigh, Time: 2000},
		{Index: 3, Price: 102, Type: SwingLow, Time: 3000},
		{Index: 4, Price: 112, Type: SwingHigh, Time: 4000},
		{Index: 5, Price: 104, Type: SwingLow, Time: 5000},
		{Index: 6, Price: 114, Type: SwingHigh, Time: 6000},
	}

	state := AnalyzeStructure(rangingCandles(), swings, Config{UseTrendHeuristic: true})

	if state.Trend != TrendUp {
		t.Fatalf("Expected UP from higher highs and higher lows, got %s", state.Trend)
	}
	if state.LastBOS == nil || *state.LastBOS != 6000 {
		t.Errorf("Expected BOS at the latest high, got %v", state.LastBOS)
	}
	// Regime (60) + BOS (20), no repeat bonus in heuristic mode
	if state.Confidence != 80 {
		t.Errorf("Expected confidence 80, got %d", state.Confidence)
	}
}

// TestThreePointHeuristicMixed verifies a non-directional window stays NEUTRAL
func TestThreePointHeuristicMixed(t *testing.T) {
	swings := []SwingPoint{
		{Index: 1, Price: 100, Type: SwingLow, Time: 1000},
		{Index: 2, Price: 110, Type: SwingHigh, Time: 2000},
		{Index: 3, Price: 98, Type: SwingLow, Time: 3000},
		// Lower high against higher low expectations
		{Index: 4, Price: 108, Type: SwingHigh, Time: 4000},
		{Index: 5, Price: 101, Type: SwingLow, Time: 5000},
		{Index: 6, Price: 112, Type: SwingHigh, Time: 6000},
	}

	state := AnalyzeStructure(rangingCandles(), swings, Config{UseTrendHeuristic: true})

	if state.Trend != TrendNeutral {
		t.Errorf("Expected NEUTRAL for a mixed window, got %s", state.Trend)
	}
}
