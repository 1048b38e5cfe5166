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

// AlphaVantageService handles communication with the Alpha Vantage API. It is
// the quote collaborator: current prices fetched here keep the stored return
// since listing consistent with the latest market data.
type AlphaVantageService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewAlphaVantageService creates a new AlphaVantageService instance
func NewAlphaVantageService(apiKey string) *AlphaVantageService {
	return &AlphaVantageService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.alphavantage.co/query",
	}
}

// GlobalQuoteResponse represents the GLOBAL_QUOTE response from Alpha Vantage
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetQuote returns the latest quote for a symbol. A symbol Alpha Vantage does
// not know yields (nil, nil).
func (s *AlphaVantageService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerAlphaVantage, "global_quote")
	timer := metrics.NewTimer()

	quote, err := WithCircuitBreaker(ctx, BreakerAlphaVantage, func() (*models.Quote, error) {
		var result *models.Quote

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("function", "GLOBAL_QUOTE")
			params.Set("symbol", symbol)
			params.Set("apikey", s.apiKey)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch quote: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("Alpha Vantage returned status %d", resp.StatusCode)
			}

			var quoteResp GlobalQuoteResponse
			if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
				return fmt.Errorf("failed to decode quote: %w", err)
			}

			if quoteResp.GlobalQuote.Symbol == "" {
				result = nil
				return nil
			}

			price, err := decimal.NewFromString(quoteResp.GlobalQuote.Price)
			if err != nil {
				return fmt.Errorf("failed to parse price %q: %w", quoteResp.GlobalQuote.Price, err)
			}

			volume, err := strconv.ParseInt(quoteResp.GlobalQuote.Volume, 10, 64)
			if err != nil {
				observability.Warn("failed to parse quote volume",
					"symbol", symbol,
					"volume", quoteResp.GlobalQuote.Volume)
				volume = 0
			}

			result = &models.Quote{
				Symbol:    quoteResp.GlobalQuote.Symbol,
				Price:     price,
				Volume:    volume,
				TradeDay:  quoteResp.GlobalQuote.LatestTradingDay,
				FetchedAt: time.Now(),
			}
			return nil
		})

		return result, err
	})

	timer.ObserveExternalAPI(BreakerAlphaVantage, "global_quote")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerAlphaVantage, "global_quote", categorizeAPIError(err))
	}
	return quote, err
}
