package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smc-analyzer/internal/binance"
	"smc-analyzer/internal/logging"
)

// EngineConfig holds orchestration parameters on top of the detector policy.
type EngineConfig struct {
	// ReferenceTimeframes are the higher timeframes establishing dominant
	// bias, ordered largest first. The bias rule uses the first two.
	ReferenceTimeframes []string
	// CandleLimit is the fetch depth for reference/overview timeframes.
	CandleLimit int
	// CurrentCandleLimit is the fetch depth for the working timeframe.
	CurrentCandleLimit int
	// WorkerCount bounds concurrent timeframe fetches.
	WorkerCount int
}

func (c EngineConfig) withDefaults() EngineConfig {
	if len(c.ReferenceTimeframes) == 0 {
		c.ReferenceTimeframes = []string{"1d", "4h", "1h"}
	}
	if c.CandleLimit <= 0 {
		c.CandleLimit = 100
	}
	if c.CurrentCandleLimit <= 0 {
		c.CurrentCandleLimit = 200
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	return c
}

// Engine runs the full market-structure pipeline across timeframes. It is
// stateless and re-entrant: every analysis is a pure function of the candle
// series fetched for that call.
type Engine struct {
	client binance.KlineClient
	cfg    Config
	engCfg EngineConfig
	logger *logging.Logger
}

func NewEngine(client binance.KlineClient, cfg Config, engCfg EngineConfig, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.WithComponent("analysis")
	}
	return &Engine{
		client: client,
		cfg:    cfg.withDefaults(),
		engCfg: engCfg.withDefaults(),
		logger: logger,
	}
}

// AnalyzeTimeframe runs swing detection and structure classification over a
// single already-fetched candle series.
func (e *Engine) AnalyzeTimeframe(candles []binance.Kline) (StructureState, []SwingPoint) {
	swings := DetectSwingPoints(candles, e.cfg.SwingLeftBars, e.cfg.SwingRightBars)
	return AnalyzeStructure(candles, swings, e.cfg), swings
}

// Analyze performs the top-down multi-timeframe analysis for a symbol. The
// reference timeframes establish dominant bias; the working timeframe gets
// the full detector suite and setup synthesis. Per-timeframe fetch failures
// become markers on the result; Analyze fails outright only on invalid
// input or when every timeframe fetch failed.
func (e *Engine) Analyze(ctx context.Context, symbol string, timeframes []string, currentTimeframe string) (*MTFAnalysisResult, error) {
	if err := e.validateRequest(symbol, timeframes, currentTimeframe); err != nil {
		return nil, err
	}

	fetched, errs := e.fetchAll(ctx, symbol, timeframes, currentTimeframe)

	result := &MTFAnalysisResult{
		Symbol:           symbol,
		Timestamp:        time.Now().UTC(),
		HigherTimeframes: make(map[string]*StructureState, len(e.engCfg.ReferenceTimeframes)),
		Errors:           make(map[string]string),
	}

	anySucceeded := false
	for tf, err := range errs {
		result.Errors[tf] = err.Error()
	}

	// Reference timeframes first: they set the dominant bias
	for _, tf := range e.engCfg.ReferenceTimeframes {
		candles, ok := fetched[tf]
		if !ok {
			continue
		}
		anySucceeded = true
		state, _ := e.AnalyzeTimeframe(candles)
		result.HigherTimeframes[tf] = &state
		e.logger.Debug("reference timeframe analyzed",
			"symbol", symbol, "timeframe", tf, "trend", state.Trend, "confidence", state.Confidence)
	}

	result.DominantBias = DetermineDominantBias(result.HigherTimeframes, e.engCfg.ReferenceTimeframes)

	// Working timeframe gets the full detector suite
	if candles, ok := fetched[currentKey(currentTimeframe)]; ok {
		anySucceeded = true
		result.CurrentTimeframe = e.analyzeCurrent(currentTimeframe, candles, result.DominantBias)
	}

	// Overview of every requested timeframe
	for _, tf := range timeframes {
		candles, ok := fetched[tf]
		if !ok {
			continue
		}
		anySucceeded = true
		state, _ := e.AnalyzeTimeframe(candles)
		result.AllTimeframes = append(result.AllTimeframes, TimeframeSummary{
			Timeframe:      tf,
			StructureState: state,
		})
	}

	if !anySucceeded {
		return result, fmt.Errorf("analysis of %s failed for all timeframes", symbol)
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

func (e *Engine) validateRequest(symbol string, timeframes []string, currentTimeframe string) error {
	if symbol == "" {
		return &ConfigurationError{Field: "symbol", Reason: "must not be empty"}
	}
	if currentTimeframe == "" {
		return &ConfigurationError{Field: "currentTimeframe", Reason: "must not be empty"}
	}
	if binance.IntervalDuration(currentTimeframe) == 0 {
		return &ConfigurationError{Field: "currentTimeframe", Reason: fmt.Sprintf("unknown interval %q", currentTimeframe)}
	}
	if len(timeframes) == 0 {
		return &ConfigurationError{Field: "timeframes", Reason: "must not be empty"}
	}
	for _, tf := range timeframes {
		if binance.IntervalDuration(tf) == 0 {
			return &ConfigurationError{Field: "timeframes", Reason: fmt.Sprintf("unknown interval %q", tf)}
		}
	}
	return nil
}

// currentKey namespaces the working timeframe's fetch, which uses a deeper
// candle limit than the overview fetch of the same interval.
func currentKey(tf string) string { return "current:" + tf }

type fetchJob struct {
	key   string
	tf    string
	limit int
}

// fetchAll retrieves every needed timeframe concurrently through a bounded
// worker pool. Failures are collected per key, never aborting the batch.
func (e *Engine) fetchAll(ctx context.Context, symbol string, timeframes []string, currentTimeframe string) (map[string][]binance.Kline, map[string]error) {
	jobs := make(map[string]fetchJob)
	for _, tf := range e.engCfg.ReferenceTimeframes {
		jobs[tf] = fetchJob{key: tf, tf: tf, limit: e.engCfg.CandleLimit}
	}
	for _, tf := range timeframes {
		if _, ok := jobs[tf]; !ok {
			jobs[tf] = fetchJob{key: tf, tf: tf, limit: e.engCfg.CandleLimit}
		}
	}
	key := currentKey(currentTimeframe)
	jobs[key] = fetchJob{key: key, tf: currentTimeframe, limit: e.engCfg.CurrentCandleLimit}

	jobChan := make(chan fetchJob, len(jobs))
	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched = make(map[string][]binance.Kline, len(jobs))
		errs    = make(map[string]error)
	)

	workers := e.engCfg.WorkerCount
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				candles, err := e.client.GetKlines(ctx, symbol, job.tf, job.limit)
				mu.Lock()
				if err != nil {
					errs[job.key] = err
					e.logger.Warn("timeframe fetch failed", "symbol", symbol, "timeframe", job.tf, "error", err)
				} else {
					fetched[job.key] = candles
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The working timeframe's marker should carry the plain interval name
	if err, ok := errs[key]; ok {
		delete(errs, key)
		errs[currentTimeframe] = err
	}

	return fetched, errs
}

func (e *Engine) analyzeCurrent(timeframe string, candles []binance.Kline, bias DominantBias) *TimeframeAnalysis {
	state, swings := e.AnalyzeTimeframe(candles)

	rangePos := CalculateRangePosition(candles, swings, e.cfg)
	fvgs := DetectFVGs(candles, e.cfg)
	orderBlocks := DetectOrderBlocks(candles, swings, state.Trend, e.cfg)
	zones := DetectManipulationZones(swings, e.cfg)
	pois := SynthesizePOIs(candles, fvgs, orderBlocks, rangePos, bias, zones, swings, e.cfg)

	interpretation, reasoning, aligned, tradable := ContextualizeTrend(state, bias)

	e.logger.Info("working timeframe analyzed",
		"timeframe", timeframe,
		"trend", state.Trend,
		"bias", bias.Bias,
		"fvgs", len(fvgs),
		"orderBlocks", len(orderBlocks),
		"pois", len(pois),
		"tradingOpportunity", tradable)

	return &TimeframeAnalysis{
		Timeframe:           timeframe,
		Structure:           state,
		Interpretation:      interpretation,
		AlignedWithHigherTF: aligned,
		TradingOpportunity:  tradable,
		Reasoning:           reasoning,
		PremiumDiscount:     rangePos,
		FVGs:                fvgs,
		OrderBlocks:         orderBlocks,
		ManipulationZones:   zones,
		POIs:                pois,
	}
}
