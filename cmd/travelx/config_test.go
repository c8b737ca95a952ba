package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"TRAVELX_PORT", "TRAVELX_BASE_URL", "TRAVELX_ENV", "TRAVELX_DB_PATH",
		"TRAVELX_EXPOSE_RESET_LINK", "TRAVELX_CATALOG_DELAY", "TRAVELX_SWEEP_INTERVAL", "TRAVELX_TRUST_PROXY",
	} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ExposeResetLink {
		t.Error("ExposeResetLink should default to false")
	}
	if cfg.SweepInterval != 0 {
		t.Errorf("SweepInterval = %v, want 0 (sweep disabled)", cfg.SweepInterval)
	}
	if cfg.production() {
		t.Error("default env should not be production")
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TRAVELX_PORT", "9000")
	t.Setenv("TRAVELX_BASE_URL", "https://travelx.example")
	t.Setenv("TRAVELX_ENV", "production")
	t.Setenv("TRAVELX_EXPOSE_RESET_LINK", "true")
	t.Setenv("TRAVELX_CATALOG_DELAY", "250ms")
	t.Setenv("TRAVELX_SWEEP_INTERVAL", "5m")
	t.Setenv("TRAVELX_TRUST_PROXY", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.BaseURL != "https://travelx.example" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.production() || !cfg.ExposeResetLink || !cfg.TrustProxy {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CatalogDelay != 250*time.Millisecond || cfg.SweepInterval != 5*time.Minute {
		t.Errorf("durations = %v, %v", cfg.CatalogDelay, cfg.SweepInterval)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"TRAVELX_EXPOSE_RESET_LINK": "sometimes",
		"TRAVELX_CATALOG_DELAY":     "slow",
		"TRAVELX_SWEEP_INTERVAL":    "-1m",
		"TRAVELX_TRUST_PROXY":       "maybe",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := loadConfig(); err == nil {
				t.Errorf("%s=%s: expected error", k, v)
			}
		})
	}
}
