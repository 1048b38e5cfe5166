package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ipo-analytics/pipeline"
	"ipo-analytics/repository"

	"github.com/go-chi/chi/v5"
)

// APIHandler handles HTTP API requests
type APIHandler struct {
	app *App
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(app *App) *APIHandler {
	return &APIHandler{app: app}
}

// handleHealth returns the health status of the application
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.app.repo != nil {
		if err := h.app.repo.Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	h.jsonResponse(w, status)
}

// handleRefresh triggers a listings bulk load
func (h *APIHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	entry, err := h.app.Refresh(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, entry)
}

// handleLatestRefresh returns the most recent refresh log entry
func (h *APIHandler) handleLatestRefresh(w http.ResponseWriter, r *http.Request) {
	entry, err := h.app.LatestRefresh(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		h.jsonResponse(w, map[string]string{"status": "no_data"})
		return
	}
	h.jsonResponse(w, entry)
}

// handleGetListings returns stored listings, filtered by query parameters
func (h *APIHandler) handleGetListings(w http.ResponseWriter, r *http.Request) {
	filter := repository.ListingFilter{
		Exchange: strings.TrimSpace(r.URL.Query().Get("exchange")),
		Sector:   strings.TrimSpace(r.URL.Query().Get("sector")),
		Region:   strings.TrimSpace(r.URL.Query().Get("region")),
		Country:  strings.TrimSpace(r.URL.Query().Get("country")),
		Limit:    h.parseLimitParam(r, 0),
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1900 {
			h.jsonError(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		filter.Year = year
	}

	listings, err := h.app.GetListings(r.Context(), filter)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body := map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	}
	if len(listings) == 0 {
		body["status"] = "no_data"
	}
	h.jsonResponse(w, body)
}

// handleGetStats returns counts of stored records by year, exchange and sector
func (h *APIHandler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.app.GetStats(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, stats)
}

// handleGetAggregates returns the rollup view for the {by} key
func (h *APIHandler) handleGetAggregates(w http.ResponseWriter, r *http.Request) {
	by := chi.URLParam(r, "by")
	order := r.URL.Query().Get("order")

	rows, err := h.app.GetAggregates(r.Context(), by, order)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnsupportedGrouping) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"by":   by,
		"rows": rows,
	})
}

// handleGetPerformers returns top and bottom listings by return
func (h *APIHandler) handleGetPerformers(w http.ResponseWriter, r *http.Request) {
	limit := h.parseLimitParam(r, 10)

	performers, err := h.app.GetPerformers(r.Context(), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, performers)
}

// handleGetSummary returns the statistical digest
func (h *APIHandler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.GetSummary(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, summary)
}

// handleGetNews returns recent IPO news articles
func (h *APIHandler) handleGetNews(w http.ResponseWriter, r *http.Request) {
	limit := h.parseLimitParam(r, 10)

	articles, err := h.app.GetNews(r.Context(), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"articles": articles,
		"count":    len(articles),
	})
}

// handleGetCommentary returns market commentary
func (h *APIHandler) handleGetCommentary(w http.ResponseWriter, r *http.Request) {
	timeframe := strings.TrimSpace(r.URL.Query().Get("timeframe"))

	c, err := h.app.GetCommentary(r.Context(), timeframe)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, c)
}

// handleGetRegions returns the classification taxonomy
func (h *APIHandler) handleGetRegions(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.GetRegions())
}

// Helper functions

func (h *APIHandler) parseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func (h *APIHandler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *APIHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
