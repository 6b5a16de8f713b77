package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smc-analyzer/internal/analysis"

	"github.com/google/uuid"
)

// SaveAnalysis persists a snapshot and its generated setups in one
// transaction. Returns the snapshot ID.
func (db *DB) SaveAnalysis(ctx context.Context, result *analysis.MTFAnalysisResult) (string, error) {
	if result.CurrentTimeframe == nil {
		return "", fmt.Errorf("cannot persist analysis without a current timeframe bundle")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	snapshotID := uuid.New().String()
	current := result.CurrentTimeframe

	_, err = tx.Exec(ctx, `
		INSERT INTO analysis_snapshots (
			id, symbol, current_timeframe, dominant_bias, bias_strength,
			trend, confidence, trading_opportunity, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		snapshotID,
		result.Symbol,
		current.Timeframe,
		string(result.DominantBias.Bias),
		string(result.DominantBias.Strength),
		string(current.Structure.Trend),
		current.Structure.Confidence,
		current.TradingOpportunity,
		payload,
		result.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis snapshot: %w", err)
	}

	for _, poi := range current.POIs {
		factors, err := json.Marshal(poi.Factors)
		if err != nil {
			return "", fmt.Errorf("failed to marshal setup factors: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO trade_setups (
				id, snapshot_id, symbol, timeframe, direction, confluence_score,
				entry, stop_loss, take_profit, risk_reward, factors, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New().String(),
			snapshotID,
			result.Symbol,
			current.Timeframe,
			string(poi.Type),
			poi.ConfluenceScore,
			poi.Entry,
			poi.StopLoss,
			poi.TakeProfit,
			poi.RiskReward,
			factors,
			result.Timestamp,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert trade setup: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit analysis snapshot: %w", err)
	}
	return snapshotID, nil
}

// GetRecentSnapshots returns the latest snapshots for a symbol, newest first.
func (db *DB) GetRecentSnapshots(ctx context.Context, symbol string, limit int) ([]AnalysisSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, symbol, current_timeframe, dominant_bias, bias_strength,
		       trend, confidence, trading_opportunity, result, created_at
		FROM analysis_snapshots
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []AnalysisSnapshot
	for rows.Next() {
		var s AnalysisSnapshot
		if err := rows.Scan(
			&s.ID, &s.Symbol, &s.CurrentTimeframe, &s.DominantBias, &s.BiasStrength,
			&s.Trend, &s.Confidence, &s.TradingOpportunity, &s.Result, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetRecentSetups returns the latest generated trade setups for a symbol.
func (db *DB) GetRecentSetups(ctx context.Context, symbol string, limit int) ([]TradeSetup, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, snapshot_id, symbol, timeframe, direction, confluence_score,
		       entry, stop_loss, take_profit, risk_reward, factors, created_at
		FROM trade_setups
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade setups: %w", err)
	}
	defer rows.Close()

	var setups []TradeSetup
	for rows.Next() {
		var (
			s       TradeSetup
			factors []byte
		)
		if err := rows.Scan(
			&s.ID, &s.SnapshotID, &s.Symbol, &s.Timeframe, &s.Direction, &s.ConfluenceScore,
			&s.Entry, &s.StopLoss, &s.TakeProfit, &s.RiskReward, &factors, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade setup: %w", err)
		}
		if err := json.Unmarshal(factors, &s.Factors); err != nil {
			return nil, fmt.Errorf("failed to decode setup factors: %w", err)
		}
		setups = append(setups, s)
	}
	return setups, rows.Err()
}

// PruneSnapshots deletes snapshots older than the retention window.
func (db *DB) PruneSnapshots(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM analysis_snapshots WHERE created_at < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
