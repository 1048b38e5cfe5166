package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/observability"

	"github.com/shopspring/decimal"
)

// FMPService fetches IPO listings from the Financial Modeling Prep API. It is
// the primary fetch collaborator: one FetchListings call covers one calendar
// year and yields raw records for the normalization pipeline.
type FMPService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string

	// profileLimit caps how many per-symbol profile lookups a single
	// FetchListings call may issue; the calendar endpoint alone does not
	// carry sector or price data.
	profileLimit int
}

// NewFMPService creates a new FMPService instance
func NewFMPService(apiKey string) *FMPService {
	return &FMPService{
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      "https://financialmodelingprep.com/api/v3",
		profileLimit: 100,
	}
}

// fmpCalendarEntry is a single result from the FMP IPO calendar endpoint
type fmpCalendarEntry struct {
	Date       string  `json:"date"`
	Company    string  `json:"company"`
	Symbol     string  `json:"symbol"`
	Exchange   string  `json:"exchange"`
	Actions    string  `json:"actions"`
	Shares     int64   `json:"shares"`
	PriceRange string  `json:"priceRange"`
	MarketCap  float64 `json:"marketCap"`
}

// fmpProfile is a company profile from the FMP API, reduced to the fields the
// pipeline consumes
type fmpProfile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	VolAvg      int64   `json:"volAvg"`
	MktCap      int64   `json:"mktCap"`
	Exchange    string  `json:"exchangeShortName"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	Country     string  `json:"country"`
	IPODate     string  `json:"ipoDate"`
}

// FetchListings returns the raw IPO records for one calendar year. Records
// keep whichever fields the API populated; resolving the gaps is the
// normalizer's job, not the fetcher's.
func (s *FMPService) FetchListings(ctx context.Context, year int) ([]models.RawListing, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerFMP, "ipo_calendar")
	timer := metrics.NewTimer()

	entries, err := WithCircuitBreaker(ctx, BreakerFMP, func() ([]fmpCalendarEntry, error) {
		return s.fetchCalendar(ctx, year)
	})
	timer.ObserveExternalAPI(BreakerFMP, "ipo_calendar")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerFMP, "ipo_calendar", categorizeAPIError(err))
		return nil, err
	}

	listings := make([]models.RawListing, 0, len(entries))
	enriched := 0
	for _, entry := range entries {
		raw := models.RawListing{
			Ticker:      entry.Symbol,
			CompanyName: entry.Company,
			Exchange:    entry.Exchange,
		}
		if d, err := time.Parse("2006-01-02", entry.Date); err == nil {
			raw.ListingDate = &d
		}
		if entry.MarketCap > 0 {
			cap := int64(entry.MarketCap)
			raw.MarketCap = &cap
		}
		if low, ok := parsePriceRangeLow(entry.PriceRange); ok {
			raw.ListingPrice = &low
		}

		// Profiles carry sector, country and current price; best-effort and
		// bounded, a miss just leaves the optional fields empty.
		if entry.Symbol != "" && enriched < s.profileLimit {
			if profile, err := s.GetProfile(ctx, entry.Symbol); err == nil && profile != nil {
				mergeProfile(&raw, profile)
				enriched++
			}
		}

		listings = append(listings, raw)
	}

	return listings, nil
}

// GetProfile returns the company profile for a symbol, or nil when the API
// has none.
func (s *FMPService) GetProfile(ctx context.Context, symbol string) (*fmpProfile, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerFMP, "profile")
	timer := metrics.NewTimer()

	profile, err := WithCircuitBreaker(ctx, BreakerFMP, func() (*fmpProfile, error) {
		var profiles []fmpProfile

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("apikey", s.apiKey)

			reqURL := s.baseURL + "/profile/" + url.PathEscape(symbol) + "?" + params.Encode()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch profile: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("FMP returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&profiles)
		})
		if err != nil {
			return nil, err
		}
		if len(profiles) == 0 {
			return nil, nil
		}
		return &profiles[0], nil
	})

	timer.ObserveExternalAPI(BreakerFMP, "profile")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerFMP, "profile", categorizeAPIError(err))
	}
	return profile, err
}

func (s *FMPService) fetchCalendar(ctx context.Context, year int) ([]fmpCalendarEntry, error) {
	var entries []fmpCalendarEntry

	err := WithRetry(ctx, DefaultRetryConfig, func() error {
		params := url.Values{}
		params.Set("apikey", s.apiKey)
		params.Set("from", fmt.Sprintf("%d-01-01", year))
		params.Set("to", fmt.Sprintf("%d-12-31", year))

		reqURL := s.baseURL + "/ipo_calendar?" + params.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch IPO calendar: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("FMP returned status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&entries)
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func mergeProfile(raw *models.RawListing, profile *fmpProfile) {
	if raw.CompanyName == "" {
		raw.CompanyName = profile.CompanyName
	}
	if raw.Exchange == "" {
		raw.Exchange = profile.Exchange
	}
	raw.Sector = profile.Sector
	raw.Industry = profile.Industry
	raw.Country = profile.Country

	if profile.Price > 0 {
		price := decimal.NewFromFloat(profile.Price)
		raw.CurrentPrice = &price
	}
	if profile.MktCap > 0 {
		raw.MarketCap = &profile.MktCap
	}
	if profile.VolAvg > 0 {
		raw.Volume = &profile.VolAvg
	}
	if raw.ListingDate == nil && profile.IPODate != "" {
		if d, err := time.Parse("2006-01-02", profile.IPODate); err == nil {
			raw.ListingDate = &d
		}
	}
}

// parsePriceRangeLow extracts the low end of an FMP price range such as
// "51.00-53.00" or "51.00". The offering price is approximated by the low
// bound when no exact price exists.
func parsePriceRangeLow(priceRange string) (decimal.Decimal, bool) {
	if priceRange == "" {
		return decimal.Zero, false
	}
	low := priceRange
	for i := 0; i < len(priceRange); i++ {
		if priceRange[i] == '-' && i > 0 {
			low = priceRange[:i]
			break
		}
	}
	f, err := strconv.ParseFloat(low, 64)
	if err != nil || f <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
