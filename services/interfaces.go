package services

import (
	"context"

	"ipo-analytics/models"
)

// ListingsFetcher fetches raw listing records for one query partition.
type ListingsFetcher interface {
	FetchListings(ctx context.Context, year int) ([]models.RawListing, error)
}

// QuoteService provides current price observations.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// NewsService fetches news articles.
type NewsService interface {
	SearchIPONews(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// ModelProvider generates free text from a prompt pair. Both the OpenAI and
// the Bedrock services satisfy it.
type ModelProvider interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Compile-time interface verification
var (
	_ ListingsFetcher = (*FMPService)(nil)
	_ QuoteService    = (*AlphaVantageService)(nil)
	_ NewsService     = (*NewsAPIService)(nil)
	_ ModelProvider   = (*OpenAIService)(nil)
	_ ModelProvider   = (*BedrockService)(nil)
)
