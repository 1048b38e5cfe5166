package pipeline

import (
	"math"
	"time"

	"ipo-analytics/models"
)

const daysPerYear = 365.25

// AnnualizedReturn normalizes a total return to a one-year basis using the
// standard compound-growth inversion (1+r)^(1/years) - 1.
//
// Degenerate inputs resolve to sentinels instead of domain errors: a
// non-positive holding period (same-day or future-dated listing) yields 0,
// and a total loss (1+r <= 0) yields -1, since a non-positive base cannot be
// raised to a fractional power.
func AnnualizedReturn(totalReturn float64, listed, asOf time.Time) float64 {
	years := asOf.Sub(listed).Hours() / 24 / daysPerYear
	if years <= 0 {
		return 0
	}

	growth := 1 + totalReturn
	if growth <= 0 {
		return -1
	}

	return math.Pow(growth, 1/years) - 1
}

// Annualize computes the annualized return of a single record as of the given
// date. Records without a listing date annualize to 0.
func Annualize(rec models.ListingRecord, asOf time.Time) float64 {
	if rec.ListingDate.IsZero() {
		return 0
	}
	return AnnualizedReturn(rec.ReturnSinceListing.InexactFloat64(), rec.ListingDate, asOf)
}
