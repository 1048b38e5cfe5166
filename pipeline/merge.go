package pipeline

import (
	"sort"

	"ipo-analytics/models"
)

// Merge combines records fetched across multiple query partitions (one batch
// per year, per region, and so on) into a single collection keyed by ticker.
//
// When a ticker appears in more than one batch the last occurrence in
// iteration order wins outright: batches in argument order, records in slice
// order. There is no field-level reconciliation, so a sparser later batch
// fully replaces an earlier, more complete record for the same ticker. That
// whole-record last-write-wins policy is a deliberate simplicity tradeoff and
// makes the merge order-dependent; callers own the batch order.
func Merge(batches ...[]models.ListingRecord) map[string]models.ListingRecord {
	merged := make(map[string]models.ListingRecord)
	for _, batch := range batches {
		for _, rec := range batch {
			merged[rec.Ticker] = rec
		}
	}
	return merged
}

// Flatten turns a merged collection back into a slice ordered by ticker, so
// downstream consumers iterate deterministically.
func Flatten(merged map[string]models.ListingRecord) []models.ListingRecord {
	records := make([]models.ListingRecord, 0, len(merged))
	for _, rec := range merged {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Ticker < records[j].Ticker })
	return records
}
