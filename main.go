package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"ipo-analytics/commentary"
	appconfig "ipo-analytics/config"
	"ipo-analytics/observability"
	"ipo-analytics/refresher"
	"ipo-analytics/repository"
	"ipo-analytics/services"
	"ipo-analytics/taxonomy"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	ctx := context.Background()

	// Classification taxonomy is static and must be coherent; a broken table
	// is a programming error, not a runtime condition.
	tax, err := taxonomy.New()
	if err != nil {
		observability.Fatal("failed to build taxonomy", "error", err)
	}

	// Database (with nil checks for graceful degradation)
	var repo *repository.Repository
	if cfg.HasDatabase() {
		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to initialize database, running degraded", "error", err)
			repo = nil
		} else if err := repo.EnsureSchema(ctx); err != nil {
			observability.Fatal("failed to ensure database schema", "error", err)
		}
	} else {
		observability.Warn("DATABASE_URL not set, persistence disabled")
	}

	// External services
	var fmpService *services.FMPService
	if cfg.HasFMP() {
		fmpService = services.NewFMPService(cfg.FMP.APIKey)
	} else {
		observability.Warn("FMP_API_KEY not set, listings refresh disabled")
	}

	var quoteService *services.AlphaVantageService
	if cfg.HasAlphaVantage() {
		quoteService = services.NewAlphaVantageService(cfg.AlphaVantage.APIKey)
	} else {
		observability.Warn("ALPHA_VANTAGE_API_KEY not set, quote refresh disabled")
	}

	// News works without a key, serving placeholder articles.
	newsService := services.NewNewsAPIService(cfg.NewsAPI.APIKey)
	if !cfg.HasNewsAPI() {
		observability.Warn("NEWS_API_KEY not set, serving placeholder news")
	}

	// Commentary provider: OpenAI first, Bedrock as the alternative, neither
	// being configured leaves the statistical fallback.
	var provider commentary.ModelProvider
	if cfg.HasOpenAI() {
		openaiService, err := services.NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)
		if err != nil {
			observability.Warn("failed to initialize OpenAI service", "error", err)
		} else {
			provider = openaiService
		}
	} else if cfg.Bedrock.Enabled {
		bedrockService, err := services.NewBedrockService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID, cfg.Bedrock.MaxTokens)
		if err != nil {
			observability.Warn("failed to initialize Bedrock service", "error", err)
		} else {
			provider = bedrockService
		}
	} else {
		observability.Warn("no model provider configured, commentary uses statistical fallback")
	}

	// Refresher needs both a fetcher and a store.
	var runner refreshRunner
	if fmpService != nil && repo != nil {
		var quotes refresher.QuoteProvider
		if quoteService != nil {
			quotes = quoteService
		}
		runner = refresher.New(fmpService, quotes, repo, tax, refresher.Config{
			YearsBack:         cfg.Refresh.YearsBack,
			QuoteRefreshLimit: cfg.Refresh.QuoteRefreshLimit,
		})
	}

	var repoIface repository.RepositoryInterface
	if repo != nil {
		repoIface = repo
	}

	app := NewApp(repoIface, runner, newsService, commentary.New(provider), tax)
	defer app.shutdown()

	router := NewRouter(NewAPIHandler(app), cfg)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	observability.Info("server starting", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		observability.Fatal("server failed", "error", err)
	}
}
