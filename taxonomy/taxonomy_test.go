package taxonomy

import (
	"testing"

	"ipo-analytics/models"
)

func TestNew(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tax == nil {
		t.Fatal("New() returned nil taxonomy")
	}
}

func TestCountryForExchange(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		exchange string
		want     string
	}{
		{"NASDAQ", "United States"},
		{"NYSE", "United States"},
		{"LSE", "United Kingdom"},
		{"TSE", "Japan"},
		{"SSE", "China"},
		{"B3", "Brazil"},
		{"TADAWUL", "Saudi Arabia"},
		{"nasdaq", "United States"}, // code casing is not meaningful
		{" NYSE ", "United States"},
		{"NOPE", models.UnknownCountry},
		{"", models.UnknownCountry},
	}

	for _, tt := range tests {
		if got := tax.CountryForExchange(tt.exchange); got != tt.want {
			t.Errorf("CountryForExchange(%q) = %q, want %q", tt.exchange, got, tt.want)
		}
	}
}

func TestRegionForCountry(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		country string
		want    models.Region
	}{
		{"United States", models.RegionAmericas},
		{"Brazil", models.RegionAmericas},
		{"United Kingdom", models.RegionEMEA},
		{"South Africa", models.RegionEMEA},
		{"Japan", models.RegionAPAC},
		{"Australia", models.RegionAPAC},
		{models.UnknownCountry, models.RegionOther},
		{"Atlantis", models.RegionOther},
		{"", models.RegionOther},
	}

	for _, tt := range tests {
		if got := tax.RegionForCountry(tt.country); got != tt.want {
			t.Errorf("RegionForCountry(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}
}

func TestRegionForCountry_IsTotal(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Every country the registry can produce must classify into a defined
	// region, and only table misses may land in Other.
	for _, code := range tax.Exchanges() {
		country := tax.CountryForExchange(code)
		region := tax.RegionForCountry(country)
		if !region.Valid() {
			t.Errorf("exchange %s: region %q is not a defined region", code, region)
		}
		if region == models.RegionOther {
			t.Errorf("exchange %s: registry country %q classified as Other", code, country)
		}
	}
}

func TestRegionForExchange(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := tax.RegionForExchange("NASDAQ"); got != models.RegionAmericas {
		t.Errorf("RegionForExchange(NASDAQ) = %q, want Americas", got)
	}
	if got := tax.RegionForExchange("UNLISTED"); got != models.RegionOther {
		t.Errorf("RegionForExchange(UNLISTED) = %q, want Other", got)
	}
}

func TestBuild_ConflictingExchange(t *testing.T) {
	entries := []ExchangeEntry{
		{"XYZ", "Japan"},
		{"XYZ", "Brazil"},
	}
	if _, err := build(entries, countryRegions); err == nil {
		t.Error("build should reject the same code declared for two countries")
	}
}

func TestBuild_DuplicateSameCountry(t *testing.T) {
	// Aliases repeating the same country are fine, the mapping is many-to-one.
	entries := []ExchangeEntry{
		{"XYZ", "Japan"},
		{"XYZ", "Japan"},
	}
	if _, err := build(entries, countryRegions); err != nil {
		t.Errorf("build rejected a benign duplicate: %v", err)
	}
}

func TestBuild_RejectsOtherInTable(t *testing.T) {
	regions := map[string]models.Region{"Nowhere": models.RegionOther}
	if _, err := build(nil, regions); err == nil {
		t.Error("build should reject countries authored directly as Other")
	}
}

func TestCountriesInRegion(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	americas := tax.CountriesInRegion(models.RegionAmericas)
	if len(americas) == 0 {
		t.Fatal("no countries in Americas")
	}
	for i := 1; i < len(americas); i++ {
		if americas[i-1] >= americas[i] {
			t.Fatalf("countries not sorted: %q before %q", americas[i-1], americas[i])
		}
	}

	found := false
	for _, c := range americas {
		if c == "United States" {
			found = true
		}
		if tax.RegionForCountry(c) != models.RegionAmericas {
			t.Errorf("country %q listed in Americas but classifies as %q", c, tax.RegionForCountry(c))
		}
	}
	if !found {
		t.Error("United States missing from Americas")
	}
}

func TestExchangesInRegion(t *testing.T) {
	tax, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, code := range tax.ExchangesInRegion(models.RegionAPAC) {
		if got := tax.RegionForExchange(code); got != models.RegionAPAC {
			t.Errorf("exchange %s listed in APAC but resolves to %q", code, got)
		}
	}
	if len(tax.ExchangesInRegion(models.RegionOther)) != 0 {
		t.Error("no registry exchange should resolve to Other")
	}
}
