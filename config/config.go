// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup
type Config struct {
	Port    string
	BaseURL string

	// DatabaseURL is empty when the catalog is read from CatalogFile
	DatabaseURL string
	CatalogFile string
	AssetsDir   string
	CacheDir    string
	ChromePath  string

	CredentialsPath      string
	DriveCatalogFolderID string

	DesignCanvasWidth float64
	DedupeWindow      time.Duration
	PlaceRelease      time.Duration
	NearDuplicatePx   float64
	HistoryLimit      int
	SessionTTL        time.Duration
	LogVerbosity      int
}

// LoadEnvFile loads a .env file outside production. Values in the file
// override the process environment.
func LoadEnvFile(path string) {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(path); err != nil {
		log.Printf("⚠️  .env file not found at %s, using system environment variables", path)
		return
	}
	log.Printf("✓ Loaded environment variables from %s", path)
}

// Load reads the configuration from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 strings.TrimPrefix(getenv("PORT", "8080"), ":"),
		CatalogFile:          getenv("CATALOG_FILE", "data/catalog.json"),
		AssetsDir:            getenv("ASSETS_DIR", "static"),
		CacheDir:             getenv("CACHE_DIR", "cache/images"),
		ChromePath:           os.Getenv("CHROME_PATH"),
		CredentialsPath:      os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveCatalogFolderID: os.Getenv("DRIVE_CATALOG_FOLDER_ID"),
	}
	cfg.BaseURL = getenv("BASE_URL", "http://localhost:"+cfg.Port)
	cfg.DatabaseURL = databaseURL()

	var err error
	if cfg.DesignCanvasWidth, err = floatEnv("DESIGN_CANVAS_WIDTH", 800); err != nil {
		return nil, err
	}
	if cfg.DedupeWindow, err = millisEnv("DEDUPE_WINDOW_MS", 500); err != nil {
		return nil, err
	}
	if cfg.PlaceRelease, err = millisEnv("PLACE_RELEASE_MS", 100); err != nil {
		return nil, err
	}
	if cfg.NearDuplicatePx, err = floatEnv("NEAR_DUPLICATE_PX", 5); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = intEnv("HISTORY_LIMIT", 50); err != nil {
		return nil, err
	}
	minutes, err := intEnv("SESSION_TTL_MINUTES", 120)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(minutes) * time.Minute
	if cfg.LogVerbosity, err = intEnv("LOG_VERBOSITY", 0); err != nil {
		return nil, err
	}

	if cfg.DesignCanvasWidth <= 0 {
		return nil, fmt.Errorf("DESIGN_CANVAS_WIDTH must be positive, got %v", cfg.DesignCanvasWidth)
	}
	if cfg.NearDuplicatePx < 0 {
		return nil, fmt.Errorf("NEAR_DUPLICATE_PX must not be negative, got %v", cfg.NearDuplicatePx)
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}

// UseDatabase reports whether the catalog is served from Postgres
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}

// databaseURL returns DATABASE_URL or a DSN built from the DB_* variables
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getenv("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname, getenv("DB_SSLMODE", "disable"))
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func millisEnv(key string, def int) (time.Duration, error) {
	n, err := intEnv(key, def)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return time.Duration(n) * time.Millisecond, nil
}
