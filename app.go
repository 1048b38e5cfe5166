package main

import (
	"context"
	"fmt"
	"time"

	"ipo-analytics/commentary"
	"ipo-analytics/models"
	"ipo-analytics/observability"
	"ipo-analytics/pipeline"
	"ipo-analytics/repository"
	"ipo-analytics/services"
	"ipo-analytics/taxonomy"
)

// commentaryCacheTTL bounds how often the model provider is re-invoked for the
// same timeframe.
const commentaryCacheTTL = time.Hour

// refreshRunner runs bulk loads and reports on the latest one.
type refreshRunner interface {
	Refresh(ctx context.Context) (*models.RefreshLog, error)
	LatestLog(ctx context.Context) (*models.RefreshLog, error)
}

// App wires the analytics operations the HTTP layer exposes. Any collaborator
// may be nil; operations that need a missing one fail with a clear error.
type App struct {
	repo      repository.RepositoryInterface
	refresher refreshRunner
	news      services.NewsService
	generator *commentary.Generator
	tax       *taxonomy.Taxonomy
}

// NewApp creates a new App application struct
func NewApp(repo repository.RepositoryInterface, refresher refreshRunner, news services.NewsService, generator *commentary.Generator, tax *taxonomy.Taxonomy) *App {
	return &App{
		repo:      repo,
		refresher: refresher,
		news:      news,
		generator: generator,
		tax:       tax,
	}
}

// shutdown is called when the app is closing
func (a *App) shutdown() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Refresh runs one listings bulk load
func (a *App) Refresh(ctx context.Context) (*models.RefreshLog, error) {
	if a.refresher == nil {
		return nil, fmt.Errorf("refresher not initialized")
	}
	return a.refresher.Refresh(ctx)
}

// LatestRefresh returns the most recent refresh log entry, or nil
func (a *App) LatestRefresh(ctx context.Context) (*models.RefreshLog, error) {
	if a.refresher == nil {
		return nil, fmt.Errorf("refresher not initialized")
	}
	return a.refresher.LatestLog(ctx)
}

// GetListings returns stored listings matching the filter
func (a *App) GetListings(ctx context.Context, filter repository.ListingFilter) ([]models.ListingRecord, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.repo.QueryListings(ctx, filter)
}

// GetAggregates rolls stored listings up by the requested key. Sector, country
// and region views go through the in-memory rollup so key canonicalization
// applies; the exchange view is delegated to SQL.
func (a *App) GetAggregates(ctx context.Context, by string, order string) ([]models.AggregateRow, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	switch by {
	case "sector", "country", "region":
		records, err := a.repo.QueryListings(ctx, repository.ListingFilter{})
		if err != nil {
			return nil, err
		}
		sortOrder := pipeline.SortByMeanReturn
		if order == string(pipeline.SortByCount) {
			sortOrder = pipeline.SortByCount
		}
		return pipeline.Aggregate(records, pipeline.GroupBy(by), sortOrder), nil
	case "exchange":
		return a.repo.GroupSummary(ctx, by)
	default:
		return nil, fmt.Errorf("%w %q", pipeline.ErrUnsupportedGrouping, by)
	}
}

// PerformerView is a listing plus its return normalized to a one-year basis,
// so short- and long-listed securities rank comparably.
type PerformerView struct {
	models.ListingRecord
	AnnualizedReturn float64 `json:"annualized_return"`
}

// Performers bundles the best and worst listings by return since listing.
type Performers struct {
	Top    []PerformerView `json:"top"`
	Bottom []PerformerView `json:"bottom"`
}

// GetPerformers returns the top and bottom listings by return since listing
func (a *App) GetPerformers(ctx context.Context, limit int) (*Performers, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	top, err := a.repo.TopPerformers(ctx, limit)
	if err != nil {
		return nil, err
	}
	bottom, err := a.repo.WorstPerformers(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &Performers{Top: performerViews(top), Bottom: performerViews(bottom)}, nil
}

func performerViews(records []models.ListingRecord) []PerformerView {
	now := time.Now()
	views := make([]PerformerView, 0, len(records))
	for _, rec := range records {
		views = append(views, PerformerView{
			ListingRecord:    rec,
			AnnualizedReturn: pipeline.Annualize(rec, now),
		})
	}
	return views
}

// GetSummary computes the statistical digest over all stored listings
func (a *App) GetSummary(ctx context.Context) (*models.StatisticalSummary, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	records, err := a.repo.QueryListings(ctx, repository.ListingFilter{})
	if err != nil {
		return nil, err
	}
	summary := pipeline.Summarize(records, time.Now())
	return &summary, nil
}

// GetStats returns counts of what is stored, broken down by year, exchange
// and sector
func (a *App) GetStats(ctx context.Context) (*models.DatabaseStats, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.repo.Stats(ctx)
}

// GetNews returns recent IPO news articles
func (a *App) GetNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if a.news == nil {
		return nil, fmt.Errorf("news service not initialized")
	}
	return a.news.SearchIPONews(ctx, limit)
}

// GetCommentary produces market commentary over the stored listings. Results
// are cached per timeframe so repeated dashboard loads do not re-invoke the
// model provider.
func (a *App) GetCommentary(ctx context.Context, timeframe string) (*models.Commentary, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if a.generator == nil {
		return nil, fmt.Errorf("commentary generator not initialized")
	}
	if timeframe == "" {
		timeframe = commentary.DefaultTimeframe
	}

	var cached models.Commentary
	if found, err := a.repo.GetCachedPayload(ctx, "commentary", timeframe, &cached); err == nil && found {
		return &cached, nil
	}

	records, err := a.repo.QueryListings(ctx, repository.ListingFilter{})
	if err != nil {
		return nil, err
	}

	c := a.generator.Generate(ctx, records, timeframe)
	if err := a.repo.SetCachedPayload(ctx, "commentary", timeframe, c, commentaryCacheTTL); err != nil {
		observability.Warn("failed to cache commentary", "timeframe", timeframe, "error", err)
	}
	return &c, nil
}

// RegionInfo describes one region of the classification taxonomy.
type RegionInfo struct {
	Region    models.Region `json:"region"`
	Countries []string      `json:"countries"`
	Exchanges []string      `json:"exchanges"`
}

// GetRegions returns the classification taxonomy grouped by region
func (a *App) GetRegions() []RegionInfo {
	infos := make([]RegionInfo, 0, len(models.Regions))
	for _, region := range models.Regions {
		infos = append(infos, RegionInfo{
			Region:    region,
			Countries: a.tax.CountriesInRegion(region),
			Exchanges: a.tax.ExchangesInRegion(region),
		})
	}
	return infos
}
