package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/swisspairing/internal/api/request"
	"github.com/mcoot/swisspairing/internal/api/response"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/registry"
	"github.com/mcoot/swisspairing/internal/services/tournament"
)

type errorWriter func(w http.ResponseWriter, err error)

// TournamentHandler handles enrollment, pairings and rankings endpoints
type TournamentHandler struct {
	controller *tournament.Controller
	registry   *registry.Service
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(controller *tournament.Controller, registry *registry.Service) *TournamentHandler {
	return &TournamentHandler{
		controller: controller,
		registry:   registry,
	}
}

// Pairings handles GET /api/v1/tournaments/{id}/pairings
func (h *TournamentHandler) Pairings(w http.ResponseWriter, r *http.Request) {
	h.pairings(w, r, tournamentIDFromPath(r), WriteError)
}

// LegacyPairings handles GET /api/pairings?tournament_id=. Errors use the
// flat {"error": "..."} body.
func (h *TournamentHandler) LegacyPairings(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := tournamentIDFromQuery(w, r)
	if !ok {
		return
	}
	h.pairings(w, r, tournamentID, WriteLegacyError)
}

func (h *TournamentHandler) pairings(w http.ResponseWriter, r *http.Request, tournamentID model.TournamentID, writeError errorWriter) {
	rounds, err := h.parseRounds(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.controller.Pairings(r.Context(), tournamentID, rounds)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PairingsFromResult(result))
}

// ResetPairings handles DELETE /api/v1/tournaments/{id}/pairings
func (h *TournamentHandler) ResetPairings(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ResetPairings(r.Context(), tournamentIDFromPath(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Rankings handles GET /api/v1/tournaments/{id}/rankings
func (h *TournamentHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	h.rankings(w, r, tournamentIDFromPath(r), WriteError)
}

// LegacyRankings handles GET /api/rankings?tournament_id=
func (h *TournamentHandler) LegacyRankings(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := tournamentIDFromQuery(w, r)
	if !ok {
		return
	}
	h.rankings(w, r, tournamentID, WriteLegacyError)
}

func (h *TournamentHandler) rankings(w http.ResponseWriter, r *http.Request, tournamentID model.TournamentID, writeError errorWriter) {
	result, err := h.controller.Rankings(r.Context(), tournamentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingsFromResult(result))
}

// ListCompetitors handles GET /api/v1/tournaments/{id}/competitors
func (h *TournamentHandler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	tournamentID := tournamentIDFromPath(r)
	competitors, err := h.registry.List(r.Context(), tournamentID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CompetitorsFromModel(tournamentID, competitors))
}

// Enroll handles POST /api/v1/tournaments/{id}/competitors
func (h *TournamentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req request.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	competitor, err := h.registry.Enroll(r.Context(), tournamentIDFromPath(r), model.Competitor{
		ID:          model.CompetitorID(req.ID),
		DisplayName: req.Username,
		Affiliation: req.College,
		GenderTag:   req.Gender,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CompetitorFromModel(*competitor))
}

// Withdraw handles DELETE /api/v1/tournaments/{id}/competitors/{competitor_id}
func (h *TournamentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	competitorID := model.CompetitorID(PathVar(r, "competitor_id"))
	if err := h.registry.Withdraw(r.Context(), tournamentIDFromPath(r), competitorID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// parseRounds reads the rounds query parameter, falling back to the
// configured default when it is absent
func (h *TournamentHandler) parseRounds(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("rounds")
	if raw == "" {
		return h.controller.DefaultRounds(), nil
	}
	rounds, err := strconv.Atoi(raw)
	if err != nil || rounds < 1 {
		return 0, model.ErrInvalidRounds
	}
	return rounds, nil
}

// PathVar returns a decoded route variable. The router matches on the
// escaped path, so variables arrive percent-encoded.
func PathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func tournamentIDFromPath(r *http.Request) model.TournamentID {
	return model.TournamentID(PathVar(r, "id"))
}

func tournamentIDFromQuery(w http.ResponseWriter, r *http.Request) (model.TournamentID, bool) {
	id := r.URL.Query().Get("tournament_id")
	if id == "" {
		WriteLegacyError(w, NewInvalidRequestError("Tournament ID is required"))
		return "", false
	}
	return model.TournamentID(id), true
}
