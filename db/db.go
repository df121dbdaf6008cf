package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection; nil when the catalog is file based
var DB *sql.DB

// InitDB opens and pings the catalog database
func InitDB(connStr string) error {
	if connStr == "" {
		return fmt.Errorf("database connection string is empty. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	var err error
	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// EnsureSchema creates the catalog table when it does not exist
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_items (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL,
	tab              TEXT NOT NULL DEFAULT '',
	image_ref        TEXT NOT NULL DEFAULT '',
	gender           TEXT NOT NULL DEFAULT '',
	occupation_group TEXT NOT NULL DEFAULT '',
	default_snap     BOOLEAN,
	base_size        DOUBLE PRECISION NOT NULL DEFAULT 0,
	color            TEXT NOT NULL DEFAULT '',
	drive_file_id    TEXT UNIQUE,
	is_active        BOOLEAN NOT NULL DEFAULT true,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
