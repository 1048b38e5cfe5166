package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetCachedPayload retrieves a cached API payload for a kind and key. Expired
// entries are treated as absent; the database does the expiry comparison to
// avoid timezone issues.
func (r *Repository) GetCachedPayload(ctx context.Context, kind, key string, out any) (bool, error) {
	var data []byte

	err := r.db.QueryRow(ctx, `
		SELECT data FROM api_cache
		WHERE kind = $1 AND cache_key = $2 AND expires_at > NOW()
	`, kind, key).Scan(&data)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query cache: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached payload: %w", err)
	}
	return true, nil
}

// SetCachedPayload stores an API payload with a TTL
func (r *Repository) SetCachedPayload(ctx context.Context, kind, key string, payload any, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO api_cache (kind, cache_key, data, expires_at)
		VALUES ($1, $2, $3, NOW() + $4::interval)
		ON CONFLICT (kind, cache_key)
		DO UPDATE SET data = EXCLUDED.data, expires_at = NOW() + $4::interval, created_at = NOW()
	`, kind, key, data, ttl.String())

	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// InvalidateCache removes a cached payload
func (r *Repository) InvalidateCache(ctx context.Context, kind, key string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM api_cache WHERE kind = $1 AND cache_key = $2
	`, kind, key)

	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// CleanExpiredCache removes all expired cache entries
func (r *Repository) CleanExpiredCache(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM api_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired cache: %w", err)
	}
	return result.RowsAffected(), nil
}
