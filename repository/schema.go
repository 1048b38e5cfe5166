package repository

import (
	"context"
	"fmt"
)

// schemaStatements creates the tables and indexes the application needs. Kept
// as idempotent DDL so startup can run it unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		ticker TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		sector TEXT NOT NULL,
		industry TEXT NOT NULL,
		exchange TEXT NOT NULL,
		country TEXT NOT NULL,
		region TEXT NOT NULL,
		listing_date DATE,
		listing_price NUMERIC,
		current_price NUMERIC,
		market_cap BIGINT NOT NULL DEFAULT 0,
		return_since_listing NUMERIC NOT NULL DEFAULT 0,
		volume BIGINT NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_region ON listings (region)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_country ON listings (country)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_sector ON listings (sector)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_listing_date ON listings (listing_date)`,

	`CREATE TABLE IF NOT EXISTS refresh_log (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		records_processed INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_log_kind_started ON refresh_log (kind, started_at DESC)`,

	`CREATE TABLE IF NOT EXISTS api_cache (
		kind TEXT NOT NULL,
		cache_key TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (kind, cache_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_cache_expires ON api_cache (expires_at)`,
}

// EnsureSchema creates missing tables and indexes
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
