package database

import (
	"encoding/json"
	"time"
)

// AnalysisSnapshot is a persisted multi-timeframe analysis record. The full
// result is stored as JSONB; the scalar columns exist for filtering.
type AnalysisSnapshot struct {
	ID                 string    `json:"id"`
	Symbol             string    `json:"symbol"`
	CurrentTimeframe   string    `json:"currentTimeframe"`
	DominantBias       string    `json:"dominantBias"`
	BiasStrength       string    `json:"biasStrength"`
	Trend              string    `json:"trend"`
	Confidence         int       `json:"confidence"`
	TradingOpportunity bool      `json:"tradingOpportunity"`
	Result             json.RawMessage `json:"result"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TradeSetup is a persisted point of interest generated by one snapshot.
type TradeSetup struct {
	ID              string    `json:"id"`
	SnapshotID      string    `json:"snapshotId"`
	Symbol          string    `json:"symbol"`
	Timeframe       string    `json:"timeframe"`
	Direction       string    `json:"direction"`
	ConfluenceScore int       `json:"confluenceScore"`
	Entry           float64   `json:"entry"`
	StopLoss        float64   `json:"stopLoss"`
	TakeProfit      float64   `json:"takeProfit"`
	RiskReward      float64   `json:"riskReward"`
	Factors         []string  `json:"factors"`
	CreatedAt       time.Time `json:"createdAt"`
}
