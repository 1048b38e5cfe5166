package repository

import (
	"context"
	"fmt"

	"ipo-analytics/models"
)

// GroupSummary aggregates stored listings by the given column. Only the
// grouping columns the schema indexes are accepted; anything else is rejected
// before reaching SQL.
func (r *Repository) GroupSummary(ctx context.Context, groupBy string) ([]models.AggregateRow, error) {
	switch groupBy {
	case "sector", "country", "region", "exchange":
	default:
		return nil, fmt.Errorf("unsupported grouping column %q", groupBy)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s, COUNT(*), AVG(return_since_listing), COALESCE(SUM(market_cap), 0)
		FROM listings
		GROUP BY %s
		ORDER BY AVG(return_since_listing) DESC
	`, groupBy, groupBy))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s summary: %w", groupBy, err)
	}
	defer rows.Close()

	var result []models.AggregateRow
	for rows.Next() {
		var row models.AggregateRow
		if err := rows.Scan(&row.Key, &row.Count, &row.MeanReturn, &row.TotalMarketCap); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Stats returns record counts broken down by listing year, exchange and
// sector.
func (r *Repository) Stats(ctx context.Context) (*models.DatabaseStats, error) {
	stats := &models.DatabaseStats{}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&stats.TotalListings); err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var err error
	stats.ByYear, err = r.countBreakdown(ctx, `
		SELECT EXTRACT(YEAR FROM listing_date)::TEXT, COUNT(*)
		FROM listings
		WHERE listing_date IS NOT NULL
		GROUP BY 1
		ORDER BY 1 DESC
	`)
	if err != nil {
		return nil, err
	}

	stats.ByExchange, err = r.countBreakdown(ctx, `
		SELECT exchange, COUNT(*)
		FROM listings
		GROUP BY exchange
		ORDER BY COUNT(*) DESC, exchange
	`)
	if err != nil {
		return nil, err
	}

	stats.BySector, err = r.countBreakdown(ctx, `
		SELECT sector, COUNT(*)
		FROM listings
		GROUP BY sector
		ORDER BY COUNT(*) DESC, sector
	`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Repository) countBreakdown(ctx context.Context, query string) ([]models.CountRow, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query count breakdown: %w", err)
	}
	defer rows.Close()

	var result []models.CountRow
	for rows.Next() {
		var row models.CountRow
		if err := rows.Scan(&row.Key, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// TopPerformers returns the stored listings with the highest return since
// listing.
func (r *Repository) TopPerformers(ctx context.Context, limit int) ([]models.ListingRecord, error) {
	return r.performers(ctx, "DESC", limit)
}

// WorstPerformers returns the stored listings with the lowest return since
// listing.
func (r *Repository) WorstPerformers(ctx context.Context, limit int) ([]models.ListingRecord, error) {
	return r.performers(ctx, "ASC", limit)
}

func (r *Repository) performers(ctx context.Context, direction string, limit int) ([]models.ListingRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		ORDER BY return_since_listing `+direction+`, ticker
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query performers: %w", err)
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
