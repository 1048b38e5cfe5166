package repository

import (
	"context"
	"time"

	"ipo-analytics/models"
)

// RepositoryInterface defines all repository operations
type RepositoryInterface interface {
	// Health and lifecycle
	Close()
	Health(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// Listings
	ReplaceListings(ctx context.Context, records []models.ListingRecord) (int, error)
	QueryListings(ctx context.Context, filter ListingFilter) ([]models.ListingRecord, error)
	GetListing(ctx context.Context, ticker string) (*models.ListingRecord, error)
	ListingCount(ctx context.Context) (int, error)
	GroupSummary(ctx context.Context, groupBy string) ([]models.AggregateRow, error)
	TopPerformers(ctx context.Context, limit int) ([]models.ListingRecord, error)
	WorstPerformers(ctx context.Context, limit int) ([]models.ListingRecord, error)
	Stats(ctx context.Context) (*models.DatabaseStats, error)

	// Refresh log
	AppendRefreshLog(ctx context.Context, entry *models.RefreshLog) error
	LatestRefreshLog(ctx context.Context, kind string) (*models.RefreshLog, error)
	RecentRefreshLogs(ctx context.Context, limit int) ([]models.RefreshLog, error)

	// Cache
	GetCachedPayload(ctx context.Context, kind, key string, out any) (bool, error)
	SetCachedPayload(ctx context.Context, kind, key string, payload any, ttl time.Duration) error
	InvalidateCache(ctx context.Context, kind, key string) error
	CleanExpiredCache(ctx context.Context) (int64, error)
}

// Compile-time interface verification
var _ RepositoryInterface = (*Repository)(nil)
