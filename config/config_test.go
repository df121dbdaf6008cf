package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var keys = []string{
	"PORT", "BASE_URL", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
	"DB_NAME", "DB_SSLMODE", "CATALOG_FILE", "DESIGN_CANVAS_WIDTH", "DEDUPE_WINDOW_MS",
	"PLACE_RELEASE_MS", "NEAR_DUPLICATE_PX", "HISTORY_LIMIT", "SESSION_TTL_MINUTES", "LOG_VERBOSITY", "ENV",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("port/base = %s %s", cfg.Port, cfg.BaseURL)
	}
	if cfg.UseDatabase() {
		t.Error("no database variables set, expected file catalog")
	}
	if cfg.DedupeWindow != 500*time.Millisecond || cfg.PlaceRelease != 100*time.Millisecond {
		t.Errorf("timings = %v %v", cfg.DedupeWindow, cfg.PlaceRelease)
	}
	if cfg.NearDuplicatePx != 5 {
		t.Errorf("near duplicate tolerance = %v, want 5", cfg.NearDuplicatePx)
	}
	if cfg.DesignCanvasWidth != 800 || cfg.HistoryLimit != 50 || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "avatar")
	t.Setenv("DB_NAME", "studio")
	t.Setenv("DEDUPE_WINDOW_MS", "250")
	t.Setenv("HISTORY_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if !cfg.UseDatabase() || !strings.Contains(cfg.DatabaseURL, "host=db port=5432") || !strings.Contains(cfg.DatabaseURL, "sslmode=disable") {
		t.Errorf("dsn = %q", cfg.DatabaseURL)
	}
	if cfg.DedupeWindow != 250*time.Millisecond || cfg.HistoryLimit != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	t.Setenv("DATABASE_URL", "postgres://u@h/db")
	cfg, _ = Load()
	if cfg.DatabaseURL != "postgres://u@h/db" {
		t.Errorf("DATABASE_URL should win, got %q", cfg.DatabaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"HISTORY_LIMIT":       "0",
		"NEAR_DUPLICATE_PX":   "-1",
		"DEDUPE_WINDOW_MS":    "-5",
		"DESIGN_CANVAS_WIDTH": "wide",
		"SESSION_TTL_MINUTES": "1h",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s accepted", key, value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PLACE_RELEASE_MS=40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	LoadEnvFile(path)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PlaceRelease != 40*time.Millisecond {
		t.Errorf("release = %v, want 40ms from .env", cfg.PlaceRelease)
	}
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
