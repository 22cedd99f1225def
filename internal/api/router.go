package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/swisspairing/internal/api/handler"
	"github.com/mcoot/swisspairing/internal/api/middleware"
	"github.com/mcoot/swisspairing/internal/services/registry"
	"github.com/mcoot/swisspairing/internal/services/tournament"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger               *slog.Logger
	TournamentController *tournament.Controller
	Registry             *registry.Service
	CORSOrigins          []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	// Match on the escaped path so ids containing "/" arrive as one segment
	r := mux.NewRouter().UseEncodedPath()

	tournamentHandler := handler.NewTournamentHandler(cfg.TournamentController, cfg.Registry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	tournaments := api.PathPrefix("/tournaments/{id}").Subrouter()
	tournaments.HandleFunc("/competitors", tournamentHandler.ListCompetitors).Methods(http.MethodGet)
	tournaments.HandleFunc("/competitors", tournamentHandler.Enroll).Methods(http.MethodPost)
	tournaments.HandleFunc("/competitors/{competitor_id}", tournamentHandler.Withdraw).Methods(http.MethodDelete)
	tournaments.HandleFunc("/pairings", tournamentHandler.Pairings).Methods(http.MethodGet)
	tournaments.HandleFunc("/pairings", tournamentHandler.ResetPairings).Methods(http.MethodDelete)
	tournaments.HandleFunc("/rankings", tournamentHandler.Rankings).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Query-string routes kept for existing front-end pages
	legacy := r.PathPrefix("/api").Subrouter()
	legacy.Use(recoveryMiddleware)
	legacy.Use(loggingMiddleware)
	legacy.HandleFunc("/pairings", tournamentHandler.LegacyPairings).Methods(http.MethodGet)
	legacy.HandleFunc("/rankings", tournamentHandler.LegacyRankings).Methods(http.MethodGet)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// Wrap the whole router so preflight requests are answered before route matching
	return middleware.CORS(origins)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
