package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/observability"
)

// ipoSearchQueries are the keyword combinations used for the IPO news feed.
// Only the first few are queried per call to stay inside free-tier quotas.
var ipoSearchQueries = []string{
	"IPO initial public offering",
	"IPO pricing debut listing",
	"IPO market performance",
	"upcoming IPO pipeline",
}

// NewsAPIService handles communication with NewsAPI.org
type NewsAPIService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewNewsAPIService creates a new NewsAPIService instance
func NewNewsAPIService(apiKey string) *NewsAPIService {
	return &NewsAPIService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://newsapi.org/v2",
	}
}

// NewsAPIResponse represents the response from NewsAPI
type NewsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// SearchIPONews returns recent IPO-related articles across the standard
// keyword set, deduplicated by URL and ordered most recent first. Without an
// API key it serves the static placeholder articles so the dashboard's news
// panel never renders empty by configuration alone.
func (s *NewsAPIService) SearchIPONews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.apiKey == "" {
		return placeholderArticles(limit), nil
	}

	seen := make(map[string]bool)
	var articles []models.NewsArticle

	for _, query := range ipoSearchQueries[:3] {
		batch, err := s.GetNews(ctx, query, limit)
		if err != nil {
			observability.Warn("news query failed, continuing with remaining queries",
				"query", query,
				"error", err)
			continue
		}
		for _, a := range batch {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			articles = append(articles, a)
		}
	}

	// Most recent first.
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			if articles[j].PublishedAt.After(articles[i].PublishedAt) {
				articles[i], articles[j] = articles[j], articles[i]
			}
		}
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// GetNews returns news articles for a query
func (s *NewsAPIService) GetNews(ctx context.Context, query string, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerNewsAPI, "everything")
	timer := metrics.NewTimer()

	articles, err := WithCircuitBreaker(ctx, BreakerNewsAPI, func() ([]models.NewsArticle, error) {
		var result []models.NewsArticle

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("q", query)
			params.Set("language", "en")
			params.Set("sortBy", "publishedAt")
			params.Set("pageSize", fmt.Sprintf("%d", limit))

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/everything?"+params.Encode(), nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			req.Header.Set("X-Api-Key", s.apiKey)

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch news: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("NewsAPI returned status %d", resp.StatusCode)
			}

			var newsResp NewsAPIResponse
			if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			result = make([]models.NewsArticle, 0, len(newsResp.Articles))
			for _, item := range newsResp.Articles {
				publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
				if err != nil {
					observability.Warn("failed to parse article timestamp, using current time",
						"published_at", item.PublishedAt)
					publishedAt = time.Now()
				}

				result = append(result, models.NewsArticle{
					Title:       item.Title,
					Description: item.Description,
					URL:         item.URL,
					Source:      item.Source.Name,
					Author:      item.Author,
					ImageURL:    item.URLToImage,
					PublishedAt: publishedAt,
				})
			}

			return nil
		})

		return result, err
	})

	timer.ObserveExternalAPI(BreakerNewsAPI, "everything")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerNewsAPI, "everything", categorizeAPIError(err))
		return nil, err
	}
	return articles, nil
}

// placeholderArticles stands in for the news feed when NewsAPI is not
// configured.
func placeholderArticles(limit int) []models.NewsArticle {
	samples := []models.NewsArticle{
		{
			Title:       "IPO Market Activity Update",
			Description: "Configure NEWS_API_KEY to receive live IPO market news.",
			Source:      "IPO Analytics",
			PublishedAt: time.Now(),
		},
		{
			Title:       "Global Listings Overview",
			Description: "Live news coverage requires a NewsAPI key; showing placeholder content.",
			Source:      "IPO Analytics",
			PublishedAt: time.Now().Add(-time.Hour),
		},
	}
	if limit < len(samples) {
		return samples[:limit]
	}
	return samples
}
