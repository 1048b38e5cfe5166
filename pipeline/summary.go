package pipeline

import (
	"sort"
	"time"

	"ipo-analytics/models"
)

// TopPerformers returns the n listings with the highest return since listing,
// descending. Ties keep input order.
func TopPerformers(records []models.ListingRecord, n int) []models.ListingRecord {
	return rankByReturn(records, n, true)
}

// BottomPerformers returns the n listings with the lowest return since
// listing, ascending.
func BottomPerformers(records []models.ListingRecord, n int) []models.ListingRecord {
	return rankByReturn(records, n, false)
}

func rankByReturn(records []models.ListingRecord, n int, descending bool) []models.ListingRecord {
	ranked := make([]models.ListingRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if descending {
			return ranked[i].ReturnSinceListing.GreaterThan(ranked[j].ReturnSinceListing)
		}
		return ranked[i].ReturnSinceListing.LessThan(ranked[j].ReturnSinceListing)
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize computes the deterministic statistical digest: the best and worst
// performer per region and per sector. It is the locally-computed fallback
// the commentary layer uses when no model provider is available, so it must
// work on any record set without external calls.
func Summarize(records []models.ListingRecord, asOf time.Time) models.StatisticalSummary {
	summary := models.StatisticalSummary{
		AsOf:  asOf,
		Total: len(records),
	}
	if len(records) == 0 {
		return summary
	}

	summary.ByRegion = extremes(records, GroupByRegion)
	summary.BySector = extremes(records, GroupBySector)
	return summary
}

func extremes(records []models.ListingRecord, by GroupBy) []models.GroupExtremes {
	type bucket struct {
		key   string
		count int
		best  models.ListingRecord
		worst models.ListingRecord
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, rec := range records {
		key := groupKey(rec, by)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, best: rec, worst: rec}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		if rec.ReturnSinceListing.GreaterThan(b.best.ReturnSinceListing) {
			b.best = rec
		}
		if rec.ReturnSinceListing.LessThan(b.worst.ReturnSinceListing) {
			b.worst = rec
		}
	}

	sort.Strings(order)
	result := make([]models.GroupExtremes, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		result = append(result, models.GroupExtremes{
			Key:   b.key,
			Count: b.count,
			Best: models.Extreme{
				Ticker:      b.best.Ticker,
				CompanyName: b.best.CompanyName,
				Return:      b.best.ReturnSinceListing,
			},
			Worst: models.Extreme{
				Ticker:      b.worst.Ticker,
				CompanyName: b.worst.CompanyName,
				Return:      b.worst.ReturnSinceListing,
			},
		})
	}
	return result
}
