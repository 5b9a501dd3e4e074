package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != DriverSQLite {
		t.Fatalf("expected sqlite driver by default, got %q", cfg.StorageDriver)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.ChartFile != "level_of_education_distribution.html" {
		t.Fatalf("unexpected chart file %q", cfg.ChartFile)
	}
	if cfg.IntakeRateWindow != time.Minute {
		t.Fatalf("expected 1m window, got %s", cfg.IntakeRateWindow)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/survey")
	t.Setenv("INTAKE_RATE_LIMIT", "5")
	t.Setenv("INTAKE_RATE_WINDOW", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != DriverPostgres || cfg.DatabaseURL != "postgres://localhost/survey" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.IntakeRateLimit != 5 || cfg.IntakeRateWindow != 30*time.Second {
		t.Fatalf("unexpected rate limit config: %d %s", cfg.IntakeRateLimit, cfg.IntakeRateWindow)
	}
}
