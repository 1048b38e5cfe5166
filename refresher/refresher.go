// Package refresher drives the bulk-load flow: fetch raw listings per year,
// normalize and merge them, optionally refresh current prices, and persist the
// result together with an audit log entry.
package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/observability"
	"ipo-analytics/pipeline"
	"ipo-analytics/taxonomy"
)

// RefreshKindListings is the audit-log kind for the listings bulk load.
const RefreshKindListings = "listings"

// Fetcher fetches raw listing records for one calendar year.
type Fetcher interface {
	FetchListings(ctx context.Context, year int) ([]models.RawListing, error)
}

// QuoteProvider supplies current price observations.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Store persists refresh results.
type Store interface {
	ReplaceListings(ctx context.Context, records []models.ListingRecord) (int, error)
	AppendRefreshLog(ctx context.Context, entry *models.RefreshLog) error
	LatestRefreshLog(ctx context.Context, kind string) (*models.RefreshLog, error)
}

// Config controls the scope of a refresh.
type Config struct {
	// YearsBack is how many calendar years of listings to fetch, counting the
	// current year as the first.
	YearsBack int
	// QuoteRefreshLimit caps per-ticker quote lookups after the merge. Zero
	// disables quote refreshing.
	QuoteRefreshLimit int
}

// Refresher orchestrates one bulk-load cycle end to end.
type Refresher struct {
	fetcher    Fetcher
	quotes     QuoteProvider
	store      Store
	normalizer *pipeline.Normalizer
	cfg        Config
	now        func() time.Time
}

// New creates a Refresher. The quote provider may be nil, in which case stored
// prices keep whatever the fetcher supplied.
func New(fetcher Fetcher, quotes QuoteProvider, store Store, tax *taxonomy.Taxonomy, cfg Config) *Refresher {
	if cfg.YearsBack <= 0 {
		cfg.YearsBack = 3
	}
	return &Refresher{
		fetcher:    fetcher,
		quotes:     quotes,
		store:      store,
		normalizer: pipeline.NewNormalizer(tax),
		cfg:        cfg,
		now:        time.Now,
	}
}

// Refresh runs one bulk-load cycle and returns the audit entry describing it.
// The entry is persisted before return; a persistence failure of the entry
// itself is returned as the error with the in-memory entry still populated.
func (r *Refresher) Refresh(ctx context.Context) (*models.RefreshLog, error) {
	metrics := observability.GetMetrics()
	metrics.RecordRefreshRequest(RefreshKindListings)
	timer := metrics.NewTimer()

	entry := models.NewRefreshLog(RefreshKindListings)
	log := observability.WithComponent("refresher")

	years := r.targetYears()
	batches, failedYears := r.fetchAll(ctx, years)

	normalized := make([][]models.ListingRecord, len(batches))
	skipped := 0
	for i, batch := range batches {
		records, batchSkipped := r.normalizer.NormalizeBatch(batch)
		normalized[i] = records
		skipped += batchSkipped
	}

	// Batches are ordered oldest year first, so on ticker collisions the most
	// recent year's record wins.
	records := pipeline.Flatten(pipeline.Merge(normalized...))

	if len(records) == 0 {
		status := models.RefreshStatusNoData
		if failedYears == len(years) && len(years) > 0 {
			status = models.RefreshStatusError
			msg := fmt.Sprintf("all %d year fetches failed", len(years))
			entry.ErrorMessage = &msg
		}
		entry.Complete(status, 0)
		metrics.RecordRefreshResult(RefreshKindListings, string(status), 0, skipped, timer.Duration())
		if err := r.store.AppendRefreshLog(ctx, entry); err != nil {
			return entry, fmt.Errorf("failed to persist refresh log: %w", err)
		}
		return entry, nil
	}

	refreshed := r.refreshQuotes(ctx, records)
	if refreshed > 0 {
		log.Info("refreshed current prices", "tickers", refreshed)
	}

	stored, err := r.store.ReplaceListings(ctx, records)
	if err != nil {
		entry.Fail(err, stored)
		metrics.RecordRefreshResult(RefreshKindListings, string(entry.Status), stored, skipped, timer.Duration())
		if logErr := r.store.AppendRefreshLog(ctx, entry); logErr != nil {
			log.Error("failed to persist refresh log after store error", "error", logErr)
		}
		return entry, err
	}

	status := models.RefreshStatusSuccess
	if failedYears > 0 || stored < len(records) {
		status = models.RefreshStatusPartial
	}
	entry.Complete(status, stored)

	metrics.RecordRefreshResult(RefreshKindListings, string(status), stored, skipped, timer.Duration())
	log.Info("refresh complete",
		"status", string(status),
		"records", stored,
		"skipped", skipped,
		"failed_years", failedYears,
		"duration", timer.Duration().String())

	if err := r.store.AppendRefreshLog(ctx, entry); err != nil {
		return entry, fmt.Errorf("failed to persist refresh log: %w", err)
	}
	return entry, nil
}

// LatestLog returns the most recent listings refresh, or nil when none has run.
func (r *Refresher) LatestLog(ctx context.Context) (*models.RefreshLog, error) {
	return r.store.LatestRefreshLog(ctx, RefreshKindListings)
}

// targetYears returns the fetch years ordered oldest first.
func (r *Refresher) targetYears() []int {
	current := r.now().Year()
	years := make([]int, 0, r.cfg.YearsBack)
	for y := current - r.cfg.YearsBack + 1; y <= current; y++ {
		years = append(years, y)
	}
	return years
}

// fetchAll fetches every year concurrently. Results land in a slice indexed by
// year position so the merge order stays deterministic regardless of which
// fetch finishes first. A failed year contributes an empty batch.
func (r *Refresher) fetchAll(ctx context.Context, years []int) ([][]models.RawListing, int) {
	batches := make([][]models.RawListing, len(years))
	errs := make([]error, len(years))

	var wg sync.WaitGroup
	for i, year := range years {
		wg.Add(1)
		go func(i, year int) {
			defer wg.Done()
			batches[i], errs[i] = r.fetcher.FetchListings(ctx, year)
		}(i, year)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			observability.Warn("year fetch failed, continuing with remaining years",
				"year", years[i],
				"error", err)
			batches[i] = nil
		}
	}
	return batches, failed
}

// refreshQuotes updates current prices in place for up to QuoteRefreshLimit
// records and returns how many were updated. Quote failures leave the fetched
// price untouched.
func (r *Refresher) refreshQuotes(ctx context.Context, records []models.ListingRecord) int {
	if r.quotes == nil || r.cfg.QuoteRefreshLimit <= 0 {
		return 0
	}

	refreshed := 0
	for i := range records {
		if refreshed >= r.cfg.QuoteRefreshLimit {
			break
		}
		quote, err := r.quotes.GetQuote(ctx, records[i].Ticker)
		if err != nil || quote == nil {
			continue
		}
		records[i].CurrentPrice = quote.Price
		if quote.Volume > 0 {
			records[i].Volume = quote.Volume
		}
		records[i].ReturnSinceListing = pipeline.ReturnSinceListing(records[i].ListingPrice, records[i].CurrentPrice)
		records[i].LastUpdated = r.now()
		refreshed++
	}
	return refreshed
}
