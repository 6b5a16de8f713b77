package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smc-analyzer/internal/analysis"

	"github.com/gin-gonic/gin"
)

// AnalysisRequest is the body of POST /api/v1/analysis
type AnalysisRequest struct {
	Symbol           string   `json:"symbol"`
	Timeframes       []string `json:"timeframes"`       // reference timeframes, largest first; defaults from config
	CurrentTimeframe string   `json:"currentTimeframe"` // working timeframe
}

// handleAnalyze runs a multi-timeframe analysis for one symbol
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.CurrentTimeframe = strings.TrimSpace(req.CurrentTimeframe)
	if len(req.Timeframes) == 0 {
		req.Timeframes = s.config.DefaultTimeframes
	}

	if cached := s.resultCache.Get(c.Request.Context(), req.Symbol, req.CurrentTimeframe); cached != nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}

	gen := s.nextGeneration(req.Symbol, req.CurrentTimeframe)

	result, err := s.engine.Analyze(c.Request.Context(), req.Symbol, req.Timeframes, req.CurrentTimeframe)
	if err != nil {
		var cfgErr *analysis.ConfigurationError
		if errors.As(err, &cfgErr) {
			errorResponse(c, http.StatusBadRequest, cfgErr.Error())
			return
		}
		errorResponse(c, http.StatusBadGateway, "analysis failed: "+err.Error())
		return
	}

	// A newer request for the same key may have finished first; only the
	// latest result is cached and persisted.
	if s.isLatest(req.Symbol, req.CurrentTimeframe, gen) {
		s.resultCache.Set(c.Request.Context(), req.Symbol, req.CurrentTimeframe, result)
		s.persistResult(result)
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, result)
}

// persistResult stores the snapshot when persistence is enabled. Failures are
// logged, never surfaced to the caller.
func (s *Server) persistResult(result *analysis.MTFAnalysisResult) {
	if s.db == nil || result.CurrentTimeframe == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := s.db.SaveAnalysis(ctx, result)
	if err != nil {
		s.logger.Error("failed to persist analysis snapshot", "symbol", result.Symbol, "error", err)
		return
	}
	s.logger.Debug("analysis snapshot persisted", "symbol", result.Symbol, "snapshotId", id)
}

// handleRecentSnapshots returns stored snapshots for a symbol, newest first
func (s *Server) handleRecentSnapshots(c *gin.Context) {
	if s.db == nil {
		errorResponse(c, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	limit := parseLimit(c.Query("limit"), 20, 100)

	snapshots, err := s.db.GetRecentSnapshots(c.Request.Context(), symbol, limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load snapshots: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    symbol,
		"count":     len(snapshots),
		"snapshots": snapshots,
	})
}

// handleRecentSetups returns stored trade setups for a symbol, newest first
func (s *Server) handleRecentSetups(c *gin.Context) {
	if s.db == nil {
		errorResponse(c, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	limit := parseLimit(c.Query("limit"), 50, 200)

	setups, err := s.db.GetRecentSetups(c.Request.Context(), symbol, limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load setups: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"count":  len(setups),
		"setups": setups,
	})
}

// handleCurrentPrice proxies the latest traded price for a symbol
func (s *Server) handleCurrentPrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		errorResponse(c, http.StatusBadRequest, "symbol is required")
		return
	}

	price, err := s.priceSource.GetCurrentPrice(c.Request.Context(), symbol)
	if err != nil {
		errorResponse(c, http.StatusBadGateway, "failed to fetch price: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"price":  price,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) nextGeneration(symbol, timeframe string) uint64 {
	key := symbol + ":" + timeframe
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[key]++
	return s.generations[key]
}

func (s *Server) isLatest(symbol, timeframe string, gen uint64) bool {
	key := symbol + ":" + timeframe
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[key] == gen
}

func parseLimit(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
