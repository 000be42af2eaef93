package stats

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	statsservice "github.com/moodlens/moodlens/backend/internal/service/stats"
	"github.com/moodlens/moodlens/backend/pkg/utils"
)

const (
	defaultLimit  = 100
	defaultOffset = 0
)

// Handler serves the read-only statistics endpoints.
type Handler struct {
	stats *statsservice.Service
}

// New creates the statistics handler.
func New(stats *statsservice.Service) *Handler {
	return &Handler{stats: stats}
}

// RegisterRoutes registers the query API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/stats", h.handleStats)
	r.Get("/emotions", h.handleEmotions)
	r.Get("/sessions", h.handleSessions)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	connections, recordCount := h.stats.Health()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"connections":      connections,
		"emotionDataCount": recordCount,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.stats.Stats())
}

func (h *Handler) handleEmotions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultLimit)
	offset := queryInt(r, "offset", defaultOffset)

	records, total := h.stats.Recent(limit, offset)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"emotions": records,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, total, connections := h.stats.Sessions()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"totalSessions":      total,
		"sessions":           sessions,
		"currentConnections": connections,
	})
}

// queryInt parses an integer query parameter, falling back to the default
// on absent or malformed values.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
