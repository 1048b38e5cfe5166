package repository

import (
	"context"
	"fmt"

	"ipo-analytics/models"

	"github.com/jackc/pgx/v5"
)

// AppendRefreshLog stores one completed refresh attempt
func (r *Repository) AppendRefreshLog(ctx context.Context, entry *models.RefreshLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_log (id, kind, status, records_processed, error_message, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.Kind, string(entry.Status), entry.RecordsProcessed,
		entry.ErrorMessage, entry.StartedAt, entry.CompletedAt)

	if err != nil {
		return fmt.Errorf("failed to append refresh log: %w", err)
	}
	return nil
}

// LatestRefreshLog returns the most recent refresh attempt for a kind, or nil
// when no refresh has run yet.
func (r *Repository) LatestRefreshLog(ctx context.Context, kind string) (*models.RefreshLog, error) {
	var entry models.RefreshLog
	var status string

	err := r.db.QueryRow(ctx, `
		SELECT id, kind, status, records_processed, error_message, started_at, completed_at
		FROM refresh_log
		WHERE kind = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, kind).Scan(&entry.ID, &entry.Kind, &status, &entry.RecordsProcessed,
		&entry.ErrorMessage, &entry.StartedAt, &entry.CompletedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh log: %w", err)
	}

	entry.Status = models.RefreshStatus(status)
	return &entry, nil
}

// RecentRefreshLogs returns the latest refresh attempts across all kinds
func (r *Repository) RecentRefreshLogs(ctx context.Context, limit int) ([]models.RefreshLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, kind, status, records_processed, error_message, started_at, completed_at
		FROM refresh_log
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh log: %w", err)
	}
	defer rows.Close()

	var entries []models.RefreshLog
	for rows.Next() {
		var entry models.RefreshLog
		var status string
		err := rows.Scan(&entry.ID, &entry.Kind, &status, &entry.RecordsProcessed,
			&entry.ErrorMessage, &entry.StartedAt, &entry.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh log: %w", err)
		}
		entry.Status = models.RefreshStatus(status)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
