package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Categories are kept as the back-office's loosely-typed documents, so the
// aggregator and exporter read them exactly as the admin stores them.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS catalog_categories (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		document JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS feed_imports (
		id TEXT PRIMARY KEY,
		mapping_id TEXT NOT NULL,
		source_key TEXT,
		checksum TEXT,
		total_rows INTEGER NOT NULL,
		valid_products INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_imports_mapping ON feed_imports (mapping_id, imported_at DESC)`,
}

// Migrate creates the catalog tables if they do not exist
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i, err)
		}
	}
	return nil
}
