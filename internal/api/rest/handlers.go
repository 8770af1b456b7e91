package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/scrape"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db    *store.Database
	stats *repository.SeasonStats
	games *repository.Games
}

// NewHandler creates a new handler
func NewHandler(db *store.Database) *Handler {
	return &Handler{
		db:    db,
		stats: repository.NewSeasonStats(db),
		games: repository.NewGames(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetCategories returns every scrapeable category name
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	names := append(scrape.CategoryNames(), backfill.CategoryResults)
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": names})
}

// GetCategoryYears returns the seasons stored for a category
func (h *Handler) GetCategoryYears(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if _, err := scrape.Lookup(category); err != nil {
		respondError(w, http.StatusNotFound, "Unknown category", err)
		return
	}

	years, err := h.stats.Years(r.Context(), category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch years", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"years":    years,
	})
}

// GetSeasonStats returns every stat line for a category and season
func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	category := vars["category"]
	if _, err := scrape.Lookup(category); err != nil {
		respondError(w, http.StatusNotFound, "Unknown category", err)
		return
	}

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	stats, err := h.stats.ListByCategoryYear(r.Context(), category, year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"year":     year,
		"count":    len(stats),
		"stats":    stats,
	})
}

// SearchPlayers searches for players by name
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'", nil)
		return
	}

	limit := 25
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	players, err := h.stats.SearchPlayers(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// GetPlayerStats returns one player's stat line in a category and season
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	category := q.Get("category")
	if name == "" || category == "" {
		respondError(w, http.StatusBadRequest, "Missing 'name' or 'category' parameter", nil)
		return
	}
	if _, err := scrape.Lookup(category); err != nil {
		respondError(w, http.StatusNotFound, "Unknown category", err)
		return
	}

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing 'year' parameter", err)
		return
	}

	stat, err := h.stats.GetByPlayer(r.Context(), category, name, year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player stats", err)
		return
	}
	if stat == nil {
		respondError(w, http.StatusNotFound, "No stat line for player", nil)
		return
	}

	respondJSON(w, http.StatusOK, stat)
}

// GetGameResults returns game results, optionally filtered by season year
func (h *Handler) GetGameResults(w http.ResponseWriter, r *http.Request) {
	year := 0
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}

	games, err := h.games.List(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game results", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
