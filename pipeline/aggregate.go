package pipeline

import (
	"errors"
	"sort"
	"strings"

	"ipo-analytics/models"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedGrouping marks a grouping key no rollup view serves. Callers
// match it with errors.Is to distinguish a bad request from a real failure.
var ErrUnsupportedGrouping = errors.New("unsupported grouping")

// GroupBy selects the grouping key for an aggregation view.
type GroupBy string

const (
	GroupBySector  GroupBy = "sector"
	GroupByCountry GroupBy = "country"
	GroupByRegion  GroupBy = "region"
)

// SortOrder selects the presentation order of aggregate rows.
type SortOrder string

const (
	SortByMeanReturn SortOrder = "mean_return"
	SortByCount      SortOrder = "count"
)

// Aggregate rolls listings up per grouping key into count, mean return since
// listing and total market cap.
//
// Keys are canonicalized before grouping (whitespace trimmed, compared
// case-insensitively) so that inconsistent casing across upstream feeds does
// not split one logical sector into several rows; the first-seen spelling is
// kept for display. Rows come back sorted per order, descending, with ties
// keeping first-seen order.
func Aggregate(records []models.ListingRecord, by GroupBy, order SortOrder) []models.AggregateRow {
	type bucket struct {
		row       models.AggregateRow
		sumReturn decimal.Decimal
		seen      int // first-seen rank, for stable tie-breaks
	}

	buckets := make(map[string]*bucket)
	var rank []string

	for _, rec := range records {
		display := strings.TrimSpace(groupKey(rec, by))
		if display == "" {
			display = models.UnknownSector
		}
		fold := strings.ToLower(display)

		b, ok := buckets[fold]
		if !ok {
			b = &bucket{row: models.AggregateRow{Key: display}, seen: len(rank)}
			buckets[fold] = b
			rank = append(rank, fold)
		}
		b.row.Count++
		b.row.TotalMarketCap += rec.MarketCap
		b.sumReturn = b.sumReturn.Add(rec.ReturnSinceListing)
	}

	rows := make([]models.AggregateRow, 0, len(buckets))
	for _, fold := range rank {
		b := buckets[fold]
		b.row.MeanReturn = b.sumReturn.Div(decimal.NewFromInt(int64(b.row.Count)))
		rows = append(rows, b.row)
	}

	switch order {
	case SortByCount:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	default:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].MeanReturn.GreaterThan(rows[j].MeanReturn) })
	}

	return rows
}

func groupKey(rec models.ListingRecord, by GroupBy) string {
	switch by {
	case GroupByCountry:
		return rec.Country
	case GroupByRegion:
		return string(rec.Region)
	default:
		return rec.Sector
	}
}
