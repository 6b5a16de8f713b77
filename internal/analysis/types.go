// Package analysis implements the market-structure engine: swing point
// detection, BOS/CHOCH trend classification, premium/discount positioning,
// fair value gaps, order blocks, liquidity manipulation zones and ranked
// trade setups, orchestrated across multiple timeframes.
package analysis

import (
	"fmt"
	"time"
)

// TrendDirection represents the structural trend regime
type TrendDirection string

const (
	TrendUp      TrendDirection = "UP"
	TrendDown    TrendDirection = "DOWN"
	TrendNeutral TrendDirection = "NEUTRAL"
)

// Direction represents the directional type of a zone or setup
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
)

// SwingType marks a swing point as a local high or low
type SwingType string

const (
	SwingHigh SwingType = "HIGH"
	SwingLow  SwingType = "LOW"
)

// SwingPoint is a confirmed local price extreme
type SwingPoint struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Type  SwingType `json:"type"`
	Time  int64     `json:"time"` // bar-open timestamp, ms
}

// StructureState is the BOS/CHOCH classification for one timeframe
type StructureState struct {
	Trend      TrendDirection `json:"trend"`
	LastBOS    *int64         `json:"lastBOS"`   // timestamp ms, nil if none
	LastCHOCH  *int64         `json:"lastCHOCH"` // timestamp ms, nil if none
	Confidence int            `json:"confidence"`
	BOSCount   int            `json:"bosCount"`
	CHOCHCount int            `json:"chochCount"`
}

// RangeStatus locates price within the recent high-low range
type RangeStatus string

const (
	StatusPremium     RangeStatus = "PREMIUM"
	StatusEquilibrium RangeStatus = "EQUILIBRIUM"
	StatusDiscount    RangeStatus = "DISCOUNT"
)

// RangePosition is the premium/discount placement of the current price
type RangePosition struct {
	CurrentPrice float64     `json:"currentPrice"`
	RangeHigh    float64     `json:"rangeHigh"`
	RangeLow     float64     `json:"rangeLow"`
	Percentage   float64     `json:"rangePercentage"` // 0-100
	Status       RangeStatus `json:"status"`
}

// FVG is a three-candle price imbalance
type FVG struct {
	Index    int       `json:"index"`
	Type     Direction `json:"type"`
	Top      float64   `json:"top"`
	Bottom   float64   `json:"bottom"`
	Midpoint float64   `json:"midpoint"`
	Size     float64   `json:"size"`
	IsFilled bool      `json:"isFilled"`
}

// OrderBlock is the origin candle behind a structural break
type OrderBlock struct {
	Index     int       `json:"index"`
	Type      Direction `json:"type"`
	Top       float64   `json:"top"`
	Bottom    float64   `json:"bottom"`
	Midpoint  float64   `json:"midpoint"`
	Volume    float64   `json:"volume"`
	Strength  float64   `json:"strength"` // 0-100
	Confirmed bool      `json:"confirmed"`
}

// ZoneType classifies a liquidity manipulation zone
type ZoneType string

const (
	EqualHighs     ZoneType = "EQUAL_HIGHS"
	EqualLows      ZoneType = "EQUAL_LOWS"
	LiquiditySweep ZoneType = "LIQUIDITY_SWEEP"
)

// ManipulationZone marks near-duplicate swing levels that attract stop hunts
type ManipulationZone struct {
	Type       ZoneType `json:"type"`
	Price      float64  `json:"price"`
	StartIndex int      `json:"startIndex"`
	EndIndex   int      `json:"endIndex"`
	Danger     int      `json:"danger"` // 0-100
}

// TargetSwing records the structural level a take-profit aims at
type TargetSwing struct {
	Type  SwingType `json:"type"`
	Price float64   `json:"price"`
	Index int       `json:"index"`
}

// TargetPlan is the output of the dynamic take-profit search
type TargetPlan struct {
	TakeProfit  float64     `json:"takeProfit"`
	RiskReward  float64     `json:"riskReward"`
	TargetSwing TargetSwing `json:"targetSwing"`
}

// POI is a fully specified, scored trade candidate
type POI struct {
	ID              string      `json:"id"`
	Type            Direction   `json:"type"`
	ConfluenceScore int         `json:"confluenceScore"`
	Factors         []string    `json:"factors"`
	Price           float64     `json:"price"`
	Entry           float64     `json:"entry"`
	StopLoss        float64     `json:"stopLoss"`
	TakeProfit      float64     `json:"takeProfit"`
	RiskReward      float64     `json:"riskReward"`
	TargetSwing     TargetSwing `json:"targetSwing"`
}

// BiasDirection is the dominant-bias verdict across higher timeframes
type BiasDirection string

const (
	BiasUp      BiasDirection = "UP"
	BiasDown    BiasDirection = "DOWN"
	BiasNeutral BiasDirection = "NEUTRAL"
	BiasMixed   BiasDirection = "MIXED"
)

// BiasStrength grades how decisive the dominant bias is
type BiasStrength string

const (
	StrengthStrong   BiasStrength = "STRONG"
	StrengthModerate BiasStrength = "MODERATE"
	StrengthWeak     BiasStrength = "WEAK"
	StrengthNone     BiasStrength = "NONE"
)

// DominantBias is the verdict derived from the higher reference timeframes
type DominantBias struct {
	Bias      BiasDirection `json:"bias"`
	Strength  BiasStrength  `json:"strength"`
	Reasoning string        `json:"reasoning"`
}

// TimeframeAnalysis is the full detail bundle for the working timeframe
type TimeframeAnalysis struct {
	Timeframe           string             `json:"timeframe"`
	Structure           StructureState     `json:"structure"`
	Interpretation      string             `json:"interpretation"`
	AlignedWithHigherTF bool               `json:"alignedWithHigherTF"`
	TradingOpportunity  bool               `json:"tradingOpportunity"`
	Reasoning           string             `json:"reasoning"`
	PremiumDiscount     RangePosition      `json:"premiumDiscount"`
	FVGs                []FVG              `json:"fvgs"`
	OrderBlocks         []OrderBlock       `json:"orderBlocks"`
	ManipulationZones   []ManipulationZone `json:"manipulationZones"`
	POIs                []POI              `json:"pois"`
}

// TimeframeSummary is the per-timeframe overview entry
type TimeframeSummary struct {
	Timeframe string `json:"timeframe"`
	StructureState
}

// MTFAnalysisResult is the top-level multi-timeframe analysis output.
// Errors carries per-timeframe failure markers; a timeframe present in
// Errors has no entry in HigherTimeframes/AllTimeframes.
type MTFAnalysisResult struct {
	Symbol           string                     `json:"symbol"`
	Timestamp        time.Time                  `json:"timestamp"`
	HigherTimeframes map[string]*StructureState `json:"higherTimeframes"`
	DominantBias     DominantBias               `json:"dominantBias"`
	CurrentTimeframe *TimeframeAnalysis         `json:"currentTimeframe"`
	AllTimeframes    []TimeframeSummary         `json:"allTimeframes"`
	Errors           map[string]string          `json:"errors,omitempty"`
}

// ConfigurationError marks an invalid analysis request, rejected before any
// fetch begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid analysis configuration: %s: %s", e.Field, e.Reason)
}
