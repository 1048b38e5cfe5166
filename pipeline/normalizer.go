// Package pipeline holds the classification, deduplication and aggregation
// core. Raw provider records flow through Normalize, batches are combined by
// Merge, and the aggregation views roll the result up for presentation. The
// whole package degrades bad input to sentinels instead of failing: upstream
// market data is known to be incomplete and one bad ticker must never take
// down a refresh.
package pipeline

import (
	"errors"
	"strings"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/taxonomy"

	"github.com/shopspring/decimal"
)

// ErrMissingTicker marks a raw record that cannot be keyed. It is the only
// condition that excludes a record from a batch; every other missing field
// degrades to a sentinel.
var ErrMissingTicker = errors.New("raw listing has no ticker")

// Normalizer resolves the optional fields of raw listings into fully-populated
// records using the injected taxonomy.
type Normalizer struct {
	tax *taxonomy.Taxonomy
	now func() time.Time
}

// NewNormalizer creates a Normalizer backed by the given taxonomy.
func NewNormalizer(tax *taxonomy.Taxonomy) *Normalizer {
	return &Normalizer{tax: tax, now: time.Now}
}

// Normalize produces a fully-populated ListingRecord from a raw one.
//
// Country is trusted when the source supplies it and derived from the
// exchange otherwise. Region is never trusted: it is always recomputed from
// the country so the classifier's taxonomy stays authoritative even when
// upstream region labels are stale.
func (n *Normalizer) Normalize(raw models.RawListing) (models.ListingRecord, error) {
	ticker := strings.TrimSpace(raw.Ticker)
	if ticker == "" {
		return models.ListingRecord{}, ErrMissingTicker
	}

	country := strings.TrimSpace(raw.Country)
	if country == "" {
		country = n.tax.CountryForExchange(raw.Exchange)
	}

	rec := models.ListingRecord{
		Ticker:      ticker,
		CompanyName: defaultString(raw.CompanyName, ticker),
		Sector:      defaultString(raw.Sector, models.UnknownSector),
		Industry:    defaultString(raw.Industry, models.UnknownIndustry),
		Exchange:    defaultString(raw.Exchange, models.UnknownExchange),
		Country:     country,
		Region:      n.tax.RegionForCountry(country),
		LastUpdated: n.now(),
	}

	if raw.ListingDate != nil {
		rec.ListingDate = *raw.ListingDate
	}
	if raw.ListingPrice != nil {
		rec.ListingPrice = *raw.ListingPrice
	}
	if raw.CurrentPrice != nil {
		rec.CurrentPrice = *raw.CurrentPrice
	}
	if raw.MarketCap != nil && *raw.MarketCap > 0 {
		rec.MarketCap = *raw.MarketCap
	}
	if raw.Volume != nil && *raw.Volume > 0 {
		rec.Volume = *raw.Volume
	}

	rec.ReturnSinceListing = ReturnSinceListing(rec.ListingPrice, rec.CurrentPrice)

	return rec, nil
}

// NormalizeBatch normalizes a whole fetch batch, skipping records without a
// ticker. It returns the surviving records and the number skipped.
func (n *Normalizer) NormalizeBatch(raws []models.RawListing) ([]models.ListingRecord, int) {
	records := make([]models.ListingRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := n.Normalize(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// ReturnSinceListing computes current/listing - 1. A missing or non-positive
// listing price yields zero: never divide by zero, never raise.
func ReturnSinceListing(listingPrice, currentPrice decimal.Decimal) decimal.Decimal {
	if listingPrice.Sign() <= 0 {
		return decimal.Zero
	}
	return currentPrice.Div(listingPrice).Sub(decimal.NewFromInt(1))
}

func defaultString(s, fallback string) string {
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return trimmed
	}
	return fallback
}
