package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Region is the top-level geographic bucket a listing belongs to.
type Region string

const (
	RegionAmericas Region = "Americas"
	RegionEMEA     Region = "EMEA"
	RegionAPAC     Region = "APAC"
	RegionOther    Region = "Other"
)

// Regions lists every region in presentation order.
var Regions = []Region{RegionAmericas, RegionEMEA, RegionAPAC, RegionOther}

// Valid reports whether r is one of the defined regions.
func (r Region) Valid() bool {
	switch r {
	case RegionAmericas, RegionEMEA, RegionAPAC, RegionOther:
		return true
	}
	return false
}

// Sentinel values used in place of missing upstream data. The pipeline never
// stores empty strings for these fields so group-by views stay well-defined.
const (
	UnknownCountry  = "Unknown"
	UnknownSector   = "Unknown"
	UnknownIndustry = "Unknown"
	UnknownExchange = "Unknown"
)

// RawListing is one security's listing snapshot as received from a market-data
// provider. Providers disagree on which fields they populate, so everything
// except the ticker is optional; the normalizer resolves optionality into a
// fully-populated ListingRecord and nothing downstream of it accepts a
// RawListing.
type RawListing struct {
	Ticker      string
	CompanyName string
	Sector      string
	Industry    string
	Exchange    string
	// Country and Region may arrive from the source. Country is trusted when
	// present; Region never is (it is always recomputed from country).
	Country string
	Region  string

	ListingDate  *time.Time
	ListingPrice *decimal.Decimal
	CurrentPrice *decimal.Decimal
	MarketCap    *int64
	Volume       *int64
}

// ListingRecord is a fully-populated public-offering snapshot keyed by ticker.
// Records are produced by the normalizer and replaced wholesale on refresh;
// everything else in the system treats them as read-only.
type ListingRecord struct {
	Ticker             string          `json:"ticker"`
	CompanyName        string          `json:"company_name"`
	Sector             string          `json:"sector"`
	Industry           string          `json:"industry"`
	Exchange           string          `json:"exchange"`
	Country            string          `json:"country"`
	Region             Region          `json:"region"`
	ListingDate        time.Time       `json:"listing_date"`
	ListingPrice       decimal.Decimal `json:"listing_price"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	MarketCap          int64           `json:"market_cap"`
	ReturnSinceListing decimal.Decimal `json:"return_since_listing"`
	Volume             int64           `json:"volume"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// ListingYear returns the calendar year the security listed, or 0 when the
// listing date is unknown.
func (r ListingRecord) ListingYear() int {
	if r.ListingDate.IsZero() {
		return 0
	}
	return r.ListingDate.Year()
}

// Quote is a current price observation for a single ticker.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Volume    int64           `json:"volume"`
	TradeDay  string          `json:"trade_day"`
	FetchedAt time.Time       `json:"fetched_at"`
}
