package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("OpenAI.Model = %v, want gpt-4o", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.MaxTokens != 4096 {
		t.Errorf("OpenAI.MaxTokens = %v, want 4096", cfg.OpenAI.MaxTokens)
	}
	if cfg.Refresh.YearsBack != 3 {
		t.Errorf("Refresh.YearsBack = %v, want 3", cfg.Refresh.YearsBack)
	}
	if cfg.Refresh.QuoteRefreshLimit != 25 {
		t.Errorf("Refresh.QuoteRefreshLimit = %v, want 25", cfg.Refresh.QuoteRefreshLimit)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %v, want :8080", cfg.HTTP.Addr)
	}
	if cfg.HTTP.CORSAllowedOrigins != "*" {
		t.Errorf("HTTP.CORSAllowedOrigins = %v, want *", cfg.HTTP.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REFRESH_YEARS_BACK", "5")
	t.Setenv("REFRESH_QUOTE_LIMIT", "0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("PRODUCTION", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Refresh.YearsBack != 5 {
		t.Errorf("Refresh.YearsBack = %v, want 5", cfg.Refresh.YearsBack)
	}
	if cfg.Refresh.QuoteRefreshLimit != 0 {
		t.Errorf("Refresh.QuoteRefreshLimit = %v, want 0 (quote refresh disabled)", cfg.Refresh.QuoteRefreshLimit)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %v, want :9090", cfg.HTTP.Addr)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("OpenAI.Model = %v, want gpt-4o-mini", cfg.OpenAI.Model)
	}
	if !cfg.Production {
		t.Error("Production should be true")
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("REFRESH_YEARS_BACK", "not-a-number")
	t.Setenv("OPENAI_MAX_TOKENS", "-100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Refresh.YearsBack != 3 {
		t.Errorf("Refresh.YearsBack = %v, want default 3", cfg.Refresh.YearsBack)
	}
	if cfg.OpenAI.MaxTokens != 4096 {
		t.Errorf("OpenAI.MaxTokens = %v, want default 4096", cfg.OpenAI.MaxTokens)
	}
}

func TestValidate_YearsBackRange(t *testing.T) {
	cfg := NewTestConfig()
	cfg.Refresh.YearsBack = 30

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for out-of-range YearsBack")
	}
	if !strings.Contains(err.Error(), "REFRESH_YEARS_BACK") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeQuoteLimit(t *testing.T) {
	cfg := NewTestConfig()
	cfg.Refresh.QuoteRefreshLimit = -1

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative quote limit")
	}
}

func TestHasHelpers(t *testing.T) {
	cfg := NewTestConfig()

	if cfg.HasDatabase() || cfg.HasFMP() || cfg.HasAlphaVantage() || cfg.HasNewsAPI() || cfg.HasOpenAI() {
		t.Error("empty test config should report no services configured")
	}

	cfg.Database.URL = "postgres://localhost/test"
	cfg.FMP.APIKey = "key"
	if !cfg.HasDatabase() {
		t.Error("HasDatabase should be true")
	}
	if !cfg.HasFMP() {
		t.Error("HasFMP should be true")
	}
}
