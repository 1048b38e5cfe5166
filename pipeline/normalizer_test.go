package pipeline

import (
	"testing"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/taxonomy"

	"github.com/shopspring/decimal"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	tax, err := taxonomy.New()
	if err != nil {
		t.Fatalf("taxonomy.New() error = %v", err)
	}
	return NewNormalizer(tax)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalize_DerivesCountryAndRegion(t *testing.T) {
	n := newTestNormalizer(t)
	listed := time.Date(2023, 9, 14, 0, 0, 0, 0, time.UTC)

	rec, err := n.Normalize(models.RawListing{
		Ticker:       "ARM",
		CompanyName:  "Arm Holdings",
		Exchange:     "NASDAQ",
		ListingDate:  &listed,
		ListingPrice: dec("51.0"),
		CurrentPrice: dec("55.08"),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if rec.Country != "United States" {
		t.Errorf("Country = %q, want United States", rec.Country)
	}
	if rec.Region != models.RegionAmericas {
		t.Errorf("Region = %q, want Americas", rec.Region)
	}
	if !rec.ReturnSinceListing.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("ReturnSinceListing = %s, want 0.08", rec.ReturnSinceListing)
	}
}

func TestNormalize_TrustsCountryButNotRegion(t *testing.T) {
	n := newTestNormalizer(t)

	// Upstream provides a country plus a stale region label; the region must
	// be recomputed from the country, not carried over.
	rec, err := n.Normalize(models.RawListing{
		Ticker:   "9988",
		Exchange: "HKEX",
		Country:  "Hong Kong",
		Region:   "EMEA",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.Country != "Hong Kong" {
		t.Errorf("Country = %q, want Hong Kong", rec.Country)
	}
	if rec.Region != models.RegionAPAC {
		t.Errorf("Region = %q, want APAC (recomputed)", rec.Region)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer(t)

	fromExchange, err := n.Normalize(models.RawListing{Ticker: "SPOT", Exchange: "STO"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	fromCountry, err := n.Normalize(models.RawListing{
		Ticker:   "SPOT",
		Exchange: "STO",
		Country:  fromExchange.Country,
		Region:   string(fromExchange.Region),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if fromCountry.Region != fromExchange.Region {
		t.Errorf("region differs between derivations: %q vs %q", fromCountry.Region, fromExchange.Region)
	}
	if fromCountry.Country != fromExchange.Country {
		t.Errorf("country differs between derivations: %q vs %q", fromCountry.Country, fromExchange.Country)
	}
}

func TestNormalize_UnknownExchange(t *testing.T) {
	n := newTestNormalizer(t)

	rec, err := n.Normalize(models.RawListing{Ticker: "ABC", Exchange: "MYSTERY"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.Country != models.UnknownCountry {
		t.Errorf("Country = %q, want Unknown", rec.Country)
	}
	if rec.Region != models.RegionOther {
		t.Errorf("Region = %q, want Other", rec.Region)
	}
}

func TestNormalize_SentinelDefaults(t *testing.T) {
	n := newTestNormalizer(t)

	rec, err := n.Normalize(models.RawListing{Ticker: "XYZ"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.CompanyName != "XYZ" {
		t.Errorf("CompanyName = %q, want ticker fallback", rec.CompanyName)
	}
	if rec.Sector != models.UnknownSector {
		t.Errorf("Sector = %q, want Unknown", rec.Sector)
	}
	if rec.Industry != models.UnknownIndustry {
		t.Errorf("Industry = %q, want Unknown", rec.Industry)
	}
	if rec.Exchange != models.UnknownExchange {
		t.Errorf("Exchange = %q, want Unknown", rec.Exchange)
	}
	if !rec.ReturnSinceListing.IsZero() {
		t.Errorf("ReturnSinceListing = %s, want 0 for missing prices", rec.ReturnSinceListing)
	}
	if rec.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestNormalize_MissingTicker(t *testing.T) {
	n := newTestNormalizer(t)

	if _, err := n.Normalize(models.RawListing{CompanyName: "No Ticker Corp"}); err != ErrMissingTicker {
		t.Errorf("Normalize() error = %v, want ErrMissingTicker", err)
	}
	if _, err := n.Normalize(models.RawListing{Ticker: "   "}); err != ErrMissingTicker {
		t.Errorf("Normalize() with blank ticker error = %v, want ErrMissingTicker", err)
	}
}

func TestNormalizeBatch_SkipsAndContinues(t *testing.T) {
	n := newTestNormalizer(t)

	records, skipped := n.NormalizeBatch([]models.RawListing{
		{Ticker: "AAA", Exchange: "NYSE"},
		{CompanyName: "Broken Corp"},
		{Ticker: "BBB", Exchange: "LSE"},
	})
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Ticker != "AAA" || records[1].Ticker != "BBB" {
		t.Errorf("batch order not preserved: %s, %s", records[0].Ticker, records[1].Ticker)
	}
}

func TestReturnSinceListing(t *testing.T) {
	tests := []struct {
		name     string
		listing  string
		current  string
		want     string
	}{
		{"gain", "51.0", "55.08", "0.08"},
		{"loss", "10", "5", "-0.5"},
		{"flat", "20", "20", "0"},
		{"zero listing price", "0", "55", "0"},
		{"negative listing price", "-1", "55", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReturnSinceListing(decimal.RequireFromString(tt.listing), decimal.RequireFromString(tt.current))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ReturnSinceListing(%s, %s) = %s, want %s", tt.listing, tt.current, got, tt.want)
			}
		})
	}
}

func TestReturnSinceListing_RoundTrip(t *testing.T) {
	// current = listing * (1 + return) must reconstruct the current price.
	listing := decimal.RequireFromString("51.0")
	current := decimal.RequireFromString("55.08")

	ret := ReturnSinceListing(listing, current)
	reconstructed := listing.Mul(ret.Add(decimal.NewFromInt(1)))
	if !reconstructed.Equal(current) {
		t.Errorf("round trip = %s, want %s", reconstructed, current)
	}
}
