package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateRow is one group-by bucket of a rollup view: how many listings fall
// under the key, their mean return since listing and their combined size.
type AggregateRow struct {
	Key            string          `json:"key"`
	Count          int             `json:"count"`
	MeanReturn     decimal.Decimal `json:"mean_return"`
	TotalMarketCap int64           `json:"total_market_cap"`
}

// CountRow is one key of a count breakdown.
type CountRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DatabaseStats describes what is stored: total listings plus record counts
// per listing year, exchange and sector.
type DatabaseStats struct {
	TotalListings int        `json:"total_listings"`
	ByYear        []CountRow `json:"by_year"`
	ByExchange    []CountRow `json:"by_exchange"`
	BySector      []CountRow `json:"by_sector"`
}

// Extreme identifies a single best or worst performer within a group.
type Extreme struct {
	Ticker      string          `json:"ticker"`
	CompanyName string          `json:"company_name"`
	Return      decimal.Decimal `json:"return"`
}

// GroupExtremes holds the best and worst performer for one grouping key.
type GroupExtremes struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Best  Extreme `json:"best"`
	Worst Extreme `json:"worst"`
}

// StatisticalSummary is the deterministic, locally-computed digest of listing
// performance. It backs the commentary fallback when no model provider is
// configured or the provider call fails.
type StatisticalSummary struct {
	AsOf     time.Time       `json:"as_of"`
	Total    int             `json:"total"`
	ByRegion []GroupExtremes `json:"by_region"`
	BySector []GroupExtremes `json:"by_sector"`
}

// Commentary is a narrative produced for the dashboard, either by a language
// model or by rendering the statistical summary.
type Commentary struct {
	Text        string    `json:"text"`
	Source      string    `json:"source"` // "model" or "fallback"
	Timeframe   string    `json:"timeframe"`
	GeneratedAt time.Time `json:"generated_at"`
}

const (
	CommentarySourceModel    = "model"
	CommentarySourceFallback = "fallback"
)
