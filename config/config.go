package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// External service configurations
	FMP          FMPConfig
	AlphaVantage AlphaVantageConfig
	NewsAPI      NewsAPIConfig

	// Model provider configurations
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	// Refresh configuration
	Refresh RefreshConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Production toggles JSON logging
	Production bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey string
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey string
}

// NewsAPIConfig holds NewsAPI configuration
type NewsAPIConfig struct {
	APIKey string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
	Enabled   bool
}

// RefreshConfig holds bulk-load configuration
type RefreshConfig struct {
	YearsBack         int
	QuoteRefreshLimit int
	TimeoutSeconds    int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		FMP: FMPConfig{
			APIKey: os.Getenv("FMP_API_KEY"),
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		},
		NewsAPI: NewsAPIConfig{
			APIKey: os.Getenv("NEWS_API_KEY"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		Bedrock: BedrockConfig{
			Region:    getEnvString("BEDROCK_REGION", "us-east-1"),
			ModelID:   getEnvString("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
			MaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 4096),
			Enabled:   getEnvBool("BEDROCK_ENABLED", false),
		},
		Refresh: RefreshConfig{
			YearsBack:         getEnvInt("REFRESH_YEARS_BACK", 3),
			QuoteRefreshLimit: getEnvIntAllowZero("REFRESH_QUOTE_LIMIT", 25),
			TimeoutSeconds:    getEnvInt("REFRESH_TIMEOUT_SECONDS", 300),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
		Production: getEnvBool("PRODUCTION", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Refresh.YearsBack <= 0 || c.Refresh.YearsBack > 25 {
		return fmt.Errorf("REFRESH_YEARS_BACK must be between 1 and 25, got %d", c.Refresh.YearsBack)
	}
	if c.Refresh.QuoteRefreshLimit < 0 {
		return fmt.Errorf("REFRESH_QUOTE_LIMIT must not be negative, got %d", c.Refresh.QuoteRefreshLimit)
	}
	if c.Refresh.TimeoutSeconds <= 0 {
		return fmt.Errorf("REFRESH_TIMEOUT_SECONDS must be positive, got %d", c.Refresh.TimeoutSeconds)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasFMP returns true if Financial Modeling Prep configuration is available
func (c *Config) HasFMP() bool {
	return c.FMP.APIKey != ""
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasNewsAPI returns true if NewsAPI configuration is available
func (c *Config) HasNewsAPI() bool {
	return c.NewsAPI.APIKey != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvIntAllowZero(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: ""},
		FMP:      FMPConfig{APIKey: ""},
		AlphaVantage: AlphaVantageConfig{
			APIKey: "",
		},
		NewsAPI: NewsAPIConfig{APIKey: ""},
		OpenAI: OpenAIConfig{
			APIKey:    "",
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Bedrock: BedrockConfig{
			Region:    "us-east-1",
			ModelID:   "anthropic.claude-3-5-sonnet-20241022-v2:0",
			MaxTokens: 4096,
			Enabled:   false,
		},
		Refresh: RefreshConfig{
			YearsBack:         3,
			QuoteRefreshLimit: 25,
			TimeoutSeconds:    300,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
		},
	}
}
