package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smc-analyzer/config"
	"smc-analyzer/internal/analysis"
	"smc-analyzer/internal/api"
	"smc-analyzer/internal/binance"
	"smc-analyzer/internal/cache"
	"smc-analyzer/internal/database"
	"smc-analyzer/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(&logging.Config{
		Level:      cfg.LoggingConfig.Level,
		Output:     cfg.LoggingConfig.Output,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
		Component:  "main",
	})
	logging.SetDefault(logger)
	logger.Info("Structured logging initialized")

	// Candle source: live Binance REST client, or deterministic mock data
	var client binance.KlineClient
	if cfg.BinanceConfig.MockMode {
		client = binance.NewMockClient()
		logger.Warn("Mock mode enabled, serving simulated candles")
	} else {
		client = binance.NewClient(cfg.BinanceConfig.BaseURL)
		logger.Info("Binance client initialized", "baseUrl", cfg.BinanceConfig.BaseURL)
	}

	// Analysis engine
	analysisCfg := analysis.DefaultConfig()
	analysisCfg.SwingLeftBars = cfg.AnalysisConfig.SwingLeftBars
	analysisCfg.SwingRightBars = cfg.AnalysisConfig.SwingRightBars
	analysisCfg.UseTrendHeuristic = cfg.AnalysisConfig.UseTrendHeuristic

	engine := analysis.NewEngine(client, analysisCfg, analysis.EngineConfig{
		ReferenceTimeframes: cfg.AnalysisConfig.ReferenceTimeframes,
		CandleLimit:         cfg.AnalysisConfig.CandleLimit,
		CurrentCandleLimit:  cfg.AnalysisConfig.CurrentCandleLimit,
		WorkerCount:         cfg.AnalysisConfig.WorkerCount,
	}, logger.WithComponent("analysis"))

	// Result cache (Redis when enabled, in-memory otherwise)
	resultCache := cache.New(cache.Config{
		RedisEnabled:  cfg.RedisConfig.Enabled,
		RedisAddress:  cfg.RedisConfig.Address,
		RedisPassword: cfg.RedisConfig.Password,
		RedisDB:       cfg.RedisConfig.DB,
		RedisPoolSize: cfg.RedisConfig.PoolSize,
		TTL:           time.Duration(cfg.AnalysisConfig.CacheTTL) * time.Second,
	}, logger.WithComponent("cache"))
	defer resultCache.Close()

	// Optional snapshot persistence
	var db *database.DB
	if cfg.DatabaseConfig.Enabled {
		db, err = database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		}, logger.WithComponent("database"))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.RunMigrations(migrateCtx); err != nil {
			cancel()
			log.Fatalf("Failed to run migrations: %v", err)
		}
		cancel()
	} else {
		logger.Info("Snapshot persistence disabled")
	}

	server := api.NewServer(api.ServerConfig{
		Host:              cfg.ServerConfig.Host,
		Port:              cfg.ServerConfig.Port,
		ProductionMode:    cfg.ServerConfig.ProductionMode,
		RateLimitRequests: cfg.ServerConfig.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.ServerConfig.RateLimitWindow) * time.Second,
		DefaultTimeframes: cfg.AnalysisConfig.ReferenceTimeframes,
	}, engine, resultCache, db, client, logger.WithComponent("api"))

	// Start web server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}
	}()

	logger.Info("Analysis API available",
		"address", cfg.ServerConfig.Host,
		"port", cfg.ServerConfig.Port,
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down web server", "error", err)
	}

	logger.Info("Shutdown complete")
}
