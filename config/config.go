package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServerConfig   ServerConfig   `json:"server"`
	BinanceConfig  BinanceConfig  `json:"binance"`
	AnalysisConfig AnalysisConfig `json:"analysis"`
	RedisConfig    RedisConfig    `json:"redis"`
	DatabaseConfig DatabaseConfig `json:"database"`
	LoggingConfig  LoggingConfig  `json:"logging"`
}

// ServerConfig holds HTTP API server configuration
type ServerConfig struct {
	Host              string `json:"host"`
	Port              int    `json:"port"`
	ProductionMode    bool   `json:"production_mode"`
	RateLimitRequests int    `json:"rate_limit_requests"` // Per window
	RateLimitWindow   int    `json:"rate_limit_window"`   // Seconds
}

type BinanceConfig struct {
	BaseURL  string `json:"base_url"`
	MockMode bool   `json:"mock_mode"` // Use simulated data when Binance API is unavailable
}

// AnalysisConfig holds market-structure engine configuration
type AnalysisConfig struct {
	ReferenceTimeframes []string `json:"reference_timeframes"` // Largest first, e.g. ["1d", "4h", "1h"]
	CandleLimit         int      `json:"candle_limit"`         // Candles per reference timeframe
	CurrentCandleLimit  int      `json:"current_candle_limit"` // Candles for the working timeframe
	SwingLeftBars       int      `json:"swing_left_bars"`
	SwingRightBars      int      `json:"swing_right_bars"`
	UseTrendHeuristic   bool     `json:"use_trend_heuristic"` // Fall back to the 3-point trend window
	WorkerCount         int      `json:"worker_count"`        // Concurrent timeframe fetches
	CacheTTL            int      `json:"cache_ttl"`           // Result cache TTL in seconds
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

type LoggingConfig struct {
	Level      string `json:"level"`       // DEBUG, INFO, WARN, ERROR
	Output     string `json:"output"`      // stdout, stderr, or file path
	JSONFormat bool   `json:"json_format"` // Output as JSON
}

// Load reads configuration from config.json (if present) and applies
// environment variable overrides on top of built-in defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	path := getEnv("CONFIG_PATH", "config.json")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerConfig: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8090,
			RateLimitRequests: 60,
			RateLimitWindow:   60,
		},
		BinanceConfig: BinanceConfig{
			BaseURL: "https://api.binance.com",
		},
		AnalysisConfig: AnalysisConfig{
			ReferenceTimeframes: []string{"1d", "4h", "1h"},
			CandleLimit:         100,
			CurrentCandleLimit:  200,
			SwingLeftBars:       5,
			SwingRightBars:      5,
			WorkerCount:         4,
			CacheTTL:            30,
		},
		RedisConfig: RedisConfig{
			Address:  "localhost:6379",
			PoolSize: 10,
		},
		DatabaseConfig: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		LoggingConfig: LoggingConfig{
			Level:      "INFO",
			Output:     "stdout",
			JSONFormat: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.ServerConfig.Host = getEnv("SERVER_HOST", cfg.ServerConfig.Host)
	cfg.ServerConfig.Port = getEnvInt("SERVER_PORT", cfg.ServerConfig.Port)
	cfg.ServerConfig.ProductionMode = getEnvBool("PRODUCTION_MODE", cfg.ServerConfig.ProductionMode)

	cfg.BinanceConfig.BaseURL = getEnv("BINANCE_BASE_URL", cfg.BinanceConfig.BaseURL)
	cfg.BinanceConfig.MockMode = getEnvBool("BINANCE_MOCK_MODE", cfg.BinanceConfig.MockMode)

	if tfs := os.Getenv("ANALYSIS_REFERENCE_TIMEFRAMES"); tfs != "" {
		parts := strings.Split(tfs, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.AnalysisConfig.ReferenceTimeframes = parts
	}
	cfg.AnalysisConfig.WorkerCount = getEnvInt("ANALYSIS_WORKER_COUNT", cfg.AnalysisConfig.WorkerCount)
	cfg.AnalysisConfig.CacheTTL = getEnvInt("ANALYSIS_CACHE_TTL", cfg.AnalysisConfig.CacheTTL)
	cfg.AnalysisConfig.UseTrendHeuristic = getEnvBool("ANALYSIS_TREND_HEURISTIC", cfg.AnalysisConfig.UseTrendHeuristic)

	cfg.RedisConfig.Enabled = getEnvBool("REDIS_ENABLED", cfg.RedisConfig.Enabled)
	cfg.RedisConfig.Address = getEnv("REDIS_ADDRESS", cfg.RedisConfig.Address)
	cfg.RedisConfig.Password = getEnv("REDIS_PASSWORD", cfg.RedisConfig.Password)

	cfg.DatabaseConfig.Enabled = getEnvBool("DATABASE_ENABLED", cfg.DatabaseConfig.Enabled)
	cfg.DatabaseConfig.Host = getEnv("DATABASE_HOST", cfg.DatabaseConfig.Host)
	cfg.DatabaseConfig.Port = getEnvInt("DATABASE_PORT", cfg.DatabaseConfig.Port)
	cfg.DatabaseConfig.User = getEnv("DATABASE_USER", cfg.DatabaseConfig.User)
	cfg.DatabaseConfig.Password = getEnv("DATABASE_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnv("DATABASE_NAME", cfg.DatabaseConfig.Database)

	cfg.LoggingConfig.Level = getEnv("LOG_LEVEL", cfg.LoggingConfig.Level)
	cfg.LoggingConfig.Output = getEnv("LOG_OUTPUT", cfg.LoggingConfig.Output)
	cfg.LoggingConfig.JSONFormat = getEnvBool("LOG_JSON", cfg.LoggingConfig.JSONFormat)
}

func (c *Config) validate() error {
	if c.ServerConfig.Port <= 0 || c.ServerConfig.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.ServerConfig.Port)
	}
	if len(c.AnalysisConfig.ReferenceTimeframes) < 2 {
		return fmt.Errorf("at least 2 reference timeframes required, got %d", len(c.AnalysisConfig.ReferenceTimeframes))
	}
	if c.AnalysisConfig.WorkerCount <= 0 {
		c.AnalysisConfig.WorkerCount = 4
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}
