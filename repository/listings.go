package repository

import (
	"context"
	"fmt"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/observability"
)

const listingColumns = `ticker, company_name, sector, industry, exchange, country, region,
	listing_date, listing_price, current_price, market_cap, return_since_listing, volume, last_updated`

// ListingFilter narrows QueryListings. Zero values mean "no constraint".
type ListingFilter struct {
	Year         int
	Exchange     string
	Sector       string
	Region       string
	Country      string
	MinMarketCap int64
	Limit        int
}

// ReplaceListings upserts the given records keyed by ticker and returns the
// number stored. A failing row is logged and skipped rather than aborting the
// batch; the error return is non-nil only when every row failed.
func (r *Repository) ReplaceListings(ctx context.Context, records []models.ListingRecord) (int, error) {
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("upsert", "listings")

	stored := 0
	var lastErr error
	for _, rec := range records {
		_, err := r.db.Exec(ctx, `
			INSERT INTO listings (`+listingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (ticker) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				sector = EXCLUDED.sector,
				industry = EXCLUDED.industry,
				exchange = EXCLUDED.exchange,
				country = EXCLUDED.country,
				region = EXCLUDED.region,
				listing_date = EXCLUDED.listing_date,
				listing_price = EXCLUDED.listing_price,
				current_price = EXCLUDED.current_price,
				market_cap = EXCLUDED.market_cap,
				return_since_listing = EXCLUDED.return_since_listing,
				volume = EXCLUDED.volume,
				last_updated = EXCLUDED.last_updated
		`, rec.Ticker, rec.CompanyName, rec.Sector, rec.Industry, rec.Exchange,
			rec.Country, string(rec.Region), nullableDate(rec.ListingDate),
			rec.ListingPrice, rec.CurrentPrice, rec.MarketCap,
			rec.ReturnSinceListing, rec.Volume, rec.LastUpdated)
		if err != nil {
			metrics.RecordDBError("upsert", "listings")
			observability.Error("failed to store listing, skipping",
				"ticker", rec.Ticker,
				"error", err)
			lastErr = err
			continue
		}
		stored++
	}

	if stored == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to store any listings: %w", lastErr)
	}
	return stored, nil
}

// QueryListings returns listings matching the filter, ordered by ticker
func (r *Repository) QueryListings(ctx context.Context, filter ListingFilter) ([]models.ListingRecord, error) {
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "listings")

	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	var args []any

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.Year > 0 {
		addArg(" AND EXTRACT(YEAR FROM listing_date) = $%d", filter.Year)
	}
	if filter.Exchange != "" {
		addArg(" AND exchange = $%d", filter.Exchange)
	}
	if filter.Sector != "" {
		addArg(" AND sector = $%d", filter.Sector)
	}
	if filter.Region != "" {
		addArg(" AND region = $%d", filter.Region)
	}
	if filter.Country != "" {
		addArg(" AND country = $%d", filter.Country)
	}
	if filter.MinMarketCap > 0 {
		addArg(" AND market_cap >= $%d", filter.MinMarketCap)
	}

	query += " ORDER BY ticker"
	if filter.Limit > 0 {
		addArg(" LIMIT $%d", filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDBError("select", "listings")
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var records []models.ListingRecord
	for rows.Next() {
		rec, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetListing returns a single listing by ticker, or nil when absent
func (r *Repository) GetListing(ctx context.Context, ticker string) (*models.ListingRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings WHERE ticker = $1`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanListing(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListingCount returns the number of stored listings
func (r *Repository) ListingCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// rowScanner covers pgx.Rows and pgx.Row for scanListing
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (models.ListingRecord, error) {
	var rec models.ListingRecord
	var region string
	var listingDate *time.Time

	err := row.Scan(&rec.Ticker, &rec.CompanyName, &rec.Sector, &rec.Industry,
		&rec.Exchange, &rec.Country, &region, &listingDate,
		&rec.ListingPrice, &rec.CurrentPrice, &rec.MarketCap,
		&rec.ReturnSinceListing, &rec.Volume, &rec.LastUpdated)
	if err != nil {
		return models.ListingRecord{}, fmt.Errorf("failed to scan listing: %w", err)
	}

	rec.Region = models.Region(region)
	if listingDate != nil {
		rec.ListingDate = *listingDate
	}
	return rec, nil
}

// nullableDate maps the zero time to SQL NULL
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
