package main

import (
	"net/http"
	"strconv"
	"time"

	"ipo-analytics/config"
	"ipo-analytics/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *APIHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.Refresh.TimeoutSeconds) * time.Second))
	r.Use(corsMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(metricsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", h.handleHealth)

		// Refresh
		r.Post("/refresh", h.handleRefresh)
		r.Get("/refresh/latest", h.handleLatestRefresh)

		// Listings and analytics
		r.Get("/listings", h.handleGetListings)
		r.Get("/aggregates/{by}", h.handleGetAggregates)
		r.Get("/performers", h.handleGetPerformers)
		r.Get("/summary", h.handleGetSummary)
		r.Get("/stats", h.handleGetStats)

		// News and commentary
		r.Get("/news", h.handleGetNews)
		r.Get("/commentary", h.handleGetCommentary)

		// Taxonomy
		r.Get("/taxonomy/regions", h.handleGetRegions)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// corsMiddleware returns CORS middleware with the specified allowed origins
func corsMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// metricsMiddleware records request counts, durations and response sizes
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		observability.GetMetrics().RecordHTTPRequest(
			r.Method,
			r.URL.Path,
			strconv.Itoa(ww.Status()),
			time.Since(start),
			ww.BytesWritten(),
		)
	})
}
