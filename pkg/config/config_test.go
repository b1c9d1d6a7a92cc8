package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Features.Lags != 5 || cfg.Features.RSIWindow != 14 {
		t.Fatalf("feature defaults missing: %+v", cfg.Features)
	}
	if len(cfg.Features.SMAWindows) != 2 {
		t.Fatalf("sma defaults missing")
	}
	if cfg.Models.TestRatio != 0.2 || cfg.Models.SVR.C != 100 {
		t.Fatalf("model defaults missing: %+v", cfg.Models)
	}
	if cfg.MarketData.LookbackDays != 150 {
		t.Fatalf("lookback = %d", cfg.MarketData.LookbackDays)
	}
}

func TestLoadRejectsShortLookback(t *testing.T) {
	body := "environment: test\nmarketdata:\n  lookback_days: 40\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error: lookback shorter than the longest feature window")
	}
}

func TestLoadRejectsBadTestRatio(t *testing.T) {
	body := "environment: test\nmodels:\n  test_ratio: 1.5\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for test_ratio outside (0, 1)")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOOKBACK_DAYS", "200")

	cfg, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want env override", cfg.Server.Port)
	}
	if cfg.MarketData.LookbackDays != 200 {
		t.Fatalf("lookback = %d, want env override", cfg.MarketData.LookbackDays)
	}
}

func TestLoadMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "log:\n  level: info\n")); err == nil {
		t.Fatalf("expected error when environment is missing")
	}
}
