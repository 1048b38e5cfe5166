// Package taxonomy maps exchange codes to countries and countries to regions.
// Both lookups are total: unresolvable exchanges return the "Unknown" country
// sentinel and unmapped countries classify as region Other. The tables are
// built once at startup and injected read-only into the pipeline.
package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"ipo-analytics/models"
)

// Taxonomy is the combined exchange registry and country classifier.
type Taxonomy struct {
	byExchange map[string]string
	byCountry  map[string]models.Region
}

// New builds the taxonomy from the canonical tables. It fails when an
// exchange code is declared twice with conflicting countries, which is a
// data-authoring error that must not be resolved by silent overwrite.
func New() (*Taxonomy, error) {
	return build(exchangeTable, countryRegions)
}

func build(exchanges []ExchangeEntry, regions map[string]models.Region) (*Taxonomy, error) {
	byExchange := make(map[string]string, len(exchanges))
	for _, e := range exchanges {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if code == "" {
			return nil, fmt.Errorf("exchange entry for %q has an empty code", e.Country)
		}
		if existing, ok := byExchange[code]; ok && existing != e.Country {
			return nil, fmt.Errorf("exchange %s declared for both %q and %q", code, existing, e.Country)
		}
		byExchange[code] = e.Country
	}

	byCountry := make(map[string]models.Region, len(regions))
	for country, region := range regions {
		if !region.Valid() || region == models.RegionOther {
			return nil, fmt.Errorf("country %q mapped to invalid region %q", country, region)
		}
		byCountry[country] = region
	}

	return &Taxonomy{byExchange: byExchange, byCountry: byCountry}, nil
}

// CountryForExchange resolves an exchange code to its country. Unknown codes
// return the "Unknown" sentinel, never an error.
func (t *Taxonomy) CountryForExchange(code string) string {
	if country, ok := t.byExchange[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return country
	}
	return models.UnknownCountry
}

// RegionForCountry resolves a country to its region. Countries absent from
// the table, including the "Unknown" sentinel, classify as Other.
func (t *Taxonomy) RegionForCountry(country string) models.Region {
	if region, ok := t.byCountry[strings.TrimSpace(country)]; ok {
		return region
	}
	return models.RegionOther
}

// RegionForExchange resolves an exchange code straight to a region.
func (t *Taxonomy) RegionForExchange(code string) models.Region {
	return t.RegionForCountry(t.CountryForExchange(code))
}

// CountriesInRegion returns the countries of a region, sorted.
func (t *Taxonomy) CountriesInRegion(region models.Region) []string {
	var countries []string
	for country, r := range t.byCountry {
		if r == region {
			countries = append(countries, country)
		}
	}
	sort.Strings(countries)
	return countries
}

// ExchangesInRegion returns the exchange codes of a region, sorted.
func (t *Taxonomy) ExchangesInRegion(region models.Region) []string {
	var codes []string
	for code, country := range t.byExchange {
		if t.RegionForCountry(country) == region {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Exchanges returns every known exchange code, sorted.
func (t *Taxonomy) Exchanges() []string {
	codes := make([]string, 0, len(t.byExchange))
	for code := range t.byExchange {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
