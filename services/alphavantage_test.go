package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAlphaVantageService(t *testing.T) {
	service := NewAlphaVantageService("test-api-key")
	if service == nil {
		t.Fatal("NewAlphaVantageService should not return nil")
	}
	if service.apiKey != "test-api-key" {
		t.Errorf("apiKey = %v, want 'test-api-key'", service.apiKey)
	}
	if service.baseURL != "https://www.alphavantage.co/query" {
		t.Errorf("baseURL = %v, want 'https://www.alphavantage.co/query'", service.baseURL)
	}
}

func TestGlobalQuoteResponse_Deserialization(t *testing.T) {
	jsonResponse := `{
		"Global Quote": {
			"01. symbol": "ARM",
			"02. open": "54.50",
			"03. high": "55.60",
			"04. low": "54.20",
			"05. price": "55.08",
			"06. volume": "8123456",
			"07. latest trading day": "2024-03-15",
			"08. previous close": "54.90",
			"09. change": "0.18",
			"10. change percent": "0.3279%"
		}
	}`

	var resp GlobalQuoteResponse
	if err := json.Unmarshal([]byte(jsonResponse), &resp); err != nil {
		t.Fatalf("Failed to unmarshal GlobalQuoteResponse: %v", err)
	}

	if resp.GlobalQuote.Symbol != "ARM" {
		t.Errorf("Symbol = %v, want 'ARM'", resp.GlobalQuote.Symbol)
	}
	if resp.GlobalQuote.Price != "55.08" {
		t.Errorf("Price = %v, want '55.08'", resp.GlobalQuote.Price)
	}
	if resp.GlobalQuote.LatestTradingDay != "2024-03-15" {
		t.Errorf("LatestTradingDay = %v, want '2024-03-15'", resp.GlobalQuote.LatestTradingDay)
	}
}

func TestAlphaVantageGetQuote(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
			t.Errorf("function = %v, want GLOBAL_QUOTE", r.URL.Query().Get("function"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "ARM",
				"05. price": "55.08",
				"06. volume": "8123456",
				"07. latest trading day": "2024-03-15"
			}
		}`))
	}))
	defer server.Close()

	service := NewAlphaVantageService("test-key")
	service.baseURL = server.URL

	quote, err := service.GetQuote(context.Background(), "ARM")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote == nil {
		t.Fatal("quote should not be nil")
	}
	if quote.Symbol != "ARM" {
		t.Errorf("Symbol = %v, want ARM", quote.Symbol)
	}
	if quote.Price.String() != "55.08" {
		t.Errorf("Price = %v, want 55.08", quote.Price)
	}
	if quote.Volume != 8123456 {
		t.Errorf("Volume = %v, want 8123456", quote.Volume)
	}
}

func TestAlphaVantageGetQuote_UnknownSymbol(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer server.Close()

	service := NewAlphaVantageService("test-key")
	service.baseURL = server.URL

	quote, err := service.GetQuote(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote != nil {
		t.Errorf("quote = %v, want nil for unknown symbol", quote)
	}
}

func TestAlphaVantageGetQuote_BadPrice(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Global Quote": {"01. symbol": "ARM", "05. price": "not-a-number"}}`))
	}))
	defer server.Close()

	service := NewAlphaVantageService("test-key")
	service.baseURL = server.URL

	_, err := service.GetQuote(context.Background(), "ARM")
	if err == nil {
		t.Error("expected error for unparseable price")
	}
}
