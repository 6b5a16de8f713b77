package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies a missing config file yields the built-in defaults
func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.ServerConfig.Port)
	}
	if cfg.BinanceConfig.BaseURL != "https://api.binance.com" {
		t.Errorf("Unexpected default base URL %s", cfg.BinanceConfig.BaseURL)
	}
	if len(cfg.AnalysisConfig.ReferenceTimeframes) != 3 {
		t.Errorf("Expected 3 default reference timeframes, got %v", cfg.AnalysisConfig.ReferenceTimeframes)
	}
	if cfg.AnalysisConfig.ReferenceTimeframes[0] != "1d" {
		t.Errorf("Expected 1d first, got %s", cfg.AnalysisConfig.ReferenceTimeframes[0])
	}
	if cfg.DatabaseConfig.Enabled {
		t.Error("Persistence must be opt-in")
	}
}

// TestLoadFromFile verifies a config file overrides defaults
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"port": 9001},
		"binance": {"mock_mode": true},
		"analysis": {"reference_timeframes": ["1w", "1d"], "worker_count": 2}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 9001 {
		t.Errorf("Expected port 9001, got %d", cfg.ServerConfig.Port)
	}
	if !cfg.BinanceConfig.MockMode {
		t.Error("Expected mock mode enabled")
	}
	if len(cfg.AnalysisConfig.ReferenceTimeframes) != 2 || cfg.AnalysisConfig.ReferenceTimeframes[0] != "1w" {
		t.Errorf("Unexpected reference timeframes %v", cfg.AnalysisConfig.ReferenceTimeframes)
	}
	if cfg.AnalysisConfig.WorkerCount != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.AnalysisConfig.WorkerCount)
	}
}

// TestEnvOverridesBeatFile verifies environment variables win over the file
func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"port": 9001}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("ANALYSIS_REFERENCE_TIMEFRAMES", "1d, 4h")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 9100 {
		t.Errorf("Expected env port 9100, got %d", cfg.ServerConfig.Port)
	}
	want := []string{"1d", "4h"}
	if len(cfg.AnalysisConfig.ReferenceTimeframes) != 2 {
		t.Fatalf("Expected %v, got %v", want, cfg.AnalysisConfig.ReferenceTimeframes)
	}
	for i, tf := range want {
		if cfg.AnalysisConfig.ReferenceTimeframes[i] != tf {
			t.Errorf("Expected trimmed %q at %d, got %q", tf, i, cfg.AnalysisConfig.ReferenceTimeframes[i])
		}
	}
	if cfg.LoggingConfig.Level != "DEBUG" {
		t.Errorf("Expected DEBUG, got %s", cfg.LoggingConfig.Level)
	}
}

// TestValidateRejectsBadPort covers the validation gate
func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("Expected an error for an out-of-range port")
	}
}

// TestValidateRejectsTooFewTimeframes requires two reference timeframes
func TestValidateRejectsTooFewTimeframes(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("ANALYSIS_REFERENCE_TIMEFRAMES", "1d")

	if _, err := Load(); err == nil {
		t.Error("Expected an error for a single reference timeframe")
	}
}
