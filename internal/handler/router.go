package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	statshandler "github.com/moodlens/moodlens/backend/internal/handler/stats"
	"github.com/moodlens/moodlens/backend/internal/handler/ws"
	middlewarePkg "github.com/moodlens/moodlens/backend/internal/middleware"
	statsservice "github.com/moodlens/moodlens/backend/internal/service/stats"
	"github.com/moodlens/moodlens/backend/pkg/utils"
)

// Version reported by the metadata endpoint.
const Version = "1.0.0"

// NewRouter wires HTTP routes to the aggregator.
func NewRouter(statsSvc *statsservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	))

	statsHandler := statshandler.New(statsSvc)
	wsHandler := ws.New(statsSvc)

	r.Get("/", handleRoot)
	wsHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		statsHandler.RegisterRoutes(api)
	})

	return r
}

// handleRoot serves server metadata for quick manual checks.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"service": "moodlens-backend",
		"version": Version,
		"status":  "ok",
		"endpoints": []string{
			"/ws",
			"/api/health",
			"/api/stats",
			"/api/emotions",
			"/api/sessions",
		},
	})
}
