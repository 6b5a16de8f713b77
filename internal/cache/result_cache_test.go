package cache

import (
	"context"
	"testing"
	"time"

	"smc-analyzer/internal/analysis"
)

func sampleResult(symbol string) *analysis.MTFAnalysisResult {
	return &analysis.MTFAnalysisResult{
		Symbol: symbol,
		DominantBias: analysis.DominantBias{
			Bias:     analysis.BiasUp,
			Strength: analysis.StrengthStrong,
		},
	}
}

// TestInMemoryRoundTrip covers the degraded (Redis disabled) path
func TestInMemoryRoundTrip(t *testing.T) {
	rc := New(Config{TTL: time.Minute}, nil)
	defer rc.Close()
	ctx := context.Background()

	if got := rc.Get(ctx, "BTCUSDT", "15m"); got != nil {
		t.Fatalf("Expected a miss on an empty cache, got %+v", got)
	}

	rc.Set(ctx, "BTCUSDT", "15m", sampleResult("BTCUSDT"))

	got := rc.Get(ctx, "BTCUSDT", "15m")
	if got == nil {
		t.Fatal("Expected a hit after Set")
	}
	if got.Symbol != "BTCUSDT" || got.DominantBias.Bias != analysis.BiasUp {
		t.Errorf("Unexpected cached payload: %+v", got)
	}
}

// TestKeysAreScopedBySymbolAndTimeframe verifies no cross-key leakage
func TestKeysAreScopedBySymbolAndTimeframe(t *testing.T) {
	rc := New(Config{TTL: time.Minute}, nil)
	defer rc.Close()
	ctx := context.Background()

	rc.Set(ctx, "BTCUSDT", "15m", sampleResult("BTCUSDT"))

	if got := rc.Get(ctx, "ETHUSDT", "15m"); got != nil {
		t.Error("Different symbol must miss")
	}
	if got := rc.Get(ctx, "BTCUSDT", "1h"); got != nil {
		t.Error("Different timeframe must miss")
	}
}

// TestExpiry verifies entries vanish after the TTL
func TestExpiry(t *testing.T) {
	rc := New(Config{TTL: 20 * time.Millisecond}, nil)
	defer rc.Close()
	ctx := context.Background()

	rc.Set(ctx, "BTCUSDT", "15m", sampleResult("BTCUSDT"))
	time.Sleep(30 * time.Millisecond)

	if got := rc.Get(ctx, "BTCUSDT", "15m"); got != nil {
		t.Error("Expected the entry to expire")
	}
}

// TestCleanupExpired verifies expired entries are reaped from the map
func TestCleanupExpired(t *testing.T) {
	rc := New(Config{TTL: 10 * time.Millisecond}, nil)
	defer rc.Close()
	ctx := context.Background()

	rc.Set(ctx, "BTCUSDT", "15m", sampleResult("BTCUSDT"))
	rc.Set(ctx, "ETHUSDT", "1h", sampleResult("ETHUSDT"))
	time.Sleep(20 * time.Millisecond)

	rc.CleanupExpired()

	rc.mu.RLock()
	size := len(rc.local)
	rc.mu.RUnlock()
	if size != 0 {
		t.Errorf("Expected an empty map after cleanup, got %d entries", size)
	}
}
