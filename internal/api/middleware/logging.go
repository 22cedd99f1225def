package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/swisspairing/internal/api/handler"
	"github.com/mcoot/swisspairing/internal/middleware"
)

// Logging creates request logging middleware for the API. Requests are
// tagged with the tournament they address, from the route or the legacy
// tournament_id query parameter.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, tournamentAttr)
}

func tournamentAttr(r *http.Request) slog.Attr {
	id := handler.PathVar(r, "id")
	if id == "" {
		id = r.URL.Query().Get("tournament_id")
	}
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("tournament_id", id)
}
