package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/swisspairing/internal/api"
	"github.com/mcoot/swisspairing/internal/api/apierr"
	"github.com/mcoot/swisspairing/internal/api/response"
	"github.com/mcoot/swisspairing/internal/dependencies/mocks"
	"github.com/mcoot/swisspairing/internal/factory"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/pairing"
	"github.com/mcoot/swisspairing/internal/services/registry"
	"github.com/mcoot/swisspairing/internal/services/schedule"
	"github.com/mcoot/swisspairing/internal/services/tournament"
	"github.com/mcoot/swisspairing/internal/storage"
	"github.com/mcoot/swisspairing/internal/storage/memory"
	"github.com/mcoot/swisspairing/internal/testutil"
)

// testServer wraps the router with a deterministic application
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		TournamentController: app.TournamentController,
		Registry:             app.Registry,
		CORSOrigins:          []string{"https://chesshive.example"},
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) enroll(t *testing.T, tournamentID string, n int) {
	t.Helper()
	require.NoError(t, ts.app.EnrollPlayers(context.Background(), model.TournamentID(tournamentID), n))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestPairingsNoPlayers(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"roundNumber":1,"allRounds":[],"message":"No players enrolled"}`, rr.Body.String())
}

func TestPairingsWireFormat(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 3)
	ts.app.MockRandom.QueueFloat64(0.5) // round 1: Player 2 beats Player 1

	rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.JSONEq(t, `{
		"roundNumber": 1,
		"allRounds": [{
			"round": 1,
			"pairings": [{
				"player1": {"id": "p1", "username": "Player 1", "score": 0},
				"player2": {"id": "p2", "username": "Player 2", "score": 1},
				"result": "Player 2 Wins",
				"outcome": "B_WINS"
			}],
			"byePlayer": {"id": "p3", "username": "Player 3", "score": 1}
		}]
	}`, rr.Body.String())
}

func TestPairingsDefaultRounds(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 4)

	rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.PairingsResponse](t, rr)
	assert.Equal(t, factory.DefaultRounds, resp.RoundNumber)
	assert.Len(t, resp.AllRounds, factory.DefaultRounds)
}

func TestPairingsInvalidRounds(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 2)

	for _, rounds := range []string{"0", "-2", "five"} {
		rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds="+rounds, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, rounds)
		assert.Equal(t, apierr.CodeInvalidRounds, decode[apierr.ErrorResponse](t, rr).Error.Code)
	}
}

func TestPairingsReusedUntilRosterChanges(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 4)

	first := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=3", nil)
	require.Equal(t, http.StatusOK, first.Code)

	ts.app.MockRandom.Float64Fallback = 0.9
	second := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=3", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/T1/competitors", map[string]string{"id": "p5", "username": "Player 5"})
	require.Equal(t, http.StatusCreated, rr.Code)

	third := ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=3", nil)
	require.Equal(t, http.StatusOK, third.Code)
	resp := decode[response.PairingsResponse](t, third)
	assert.NotNil(t, resp.AllRounds[0].ByePlayer)
}

func TestResetPairings(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 2)
	require.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/tournaments/T1/pairings?rounds=1", nil).Code)

	rr := ts.request(http.MethodDelete, "/api/v1/tournaments/T1/pairings", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := ts.app.Storage.GetSchedule(context.Background(), "T1")
	assert.ErrorIs(t, err, model.ErrScheduleNotFound)
}

func TestRankings(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T1", 4)
	ts.app.MockRandom.Float64Fallback = 0.9 // all draws

	rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/rankings", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.RankingsResponse](t, rr)
	assert.Equal(t, "T1", resp.TournamentID)
	require.Len(t, resp.Rankings, 4)
	for i, r := range resp.Rankings {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, 2.5, r.Score) // 5 default rounds of draws
	}
	assert.Equal(t, "Player 1", resp.Rankings[0].PlayerName)
}

func TestRankingsNoPlayers(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/tournaments/T1/rankings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"rankings":[],"tournamentId":"T1"}`, rr.Body.String())
}

func TestCompetitorLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/T1/competitors",
		map[string]string{"id": "u1", "username": "alice", "college": "IIT", "gender": "F"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"u1","username":"alice","college":"IIT","gender":"F"}`, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/tournaments/T1/competitors", map[string]string{"id": "u2", "username": "bob"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/tournaments/T1/competitors", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.CompetitorsResponse](t, rr)
	require.Len(t, list.Competitors, 2)
	assert.Equal(t, "u1", list.Competitors[0].ID)

	rr = ts.request(http.MethodDelete, "/api/v1/tournaments/T1/competitors/u1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/tournaments/T1/competitors/u1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeCompetitorNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestEnrollValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/T1/competitors", map[string]string{"id": "u1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCompetitor, decode[apierr.ErrorResponse](t, rr).Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tournaments/T1/competitors", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rec).Error.Code)
}

func TestLegacyRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T9", 2)

	rr := ts.request(http.MethodGet, "/api/pairings?tournament_id=T9&rounds=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.PairingsResponse](t, rr).AllRounds, 2)

	rr = ts.request(http.MethodGet, "/api/rankings?tournament_id=T9", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.RankingsResponse](t, rr).Rankings, 2)
}

func TestLegacyRoutesRequireTournamentID(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/pairings", "/api/rankings?rounds=3"} {
		rr := ts.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Tournament ID is required"}`, rr.Body.String())
	}
}

func TestLegacyRoutesUseFlatErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.enroll(t, "T9", 2)

	rr := ts.request(http.MethodGet, "/api/pairings?tournament_id=T9&rounds=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Rounds must be a positive integer"}`, rr.Body.String())

	// The versioned route keeps the structured body
	rr = ts.request(http.MethodGet, "/api/v1/tournaments/T9/pairings?rounds=0", nil)
	assert.Equal(t, apierr.CodeInvalidRounds, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tournaments/T1/pairings", nil)
	req.Header.Set("Origin", "https://chesshive.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "https://chesshive.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

// failingStorage fails every schedule read
type failingStorage struct {
	storage.Storage
}

func (failingStorage) GetSchedule(context.Context, model.TournamentID) (*model.Schedule, error) {
	return nil, errors.New("connection reset")
}

func TestStorageFailureIsInternalError(t *testing.T) {
	logger := testutil.NopLogger()
	store := failingStorage{Storage: memory.New()}
	reg := registry.New(store, logger)
	engine := pairing.New(mocks.NewFixedRandom(0.1), mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), logger)
	schedules := schedule.New(store, memory.NewLocker(), engine, logger, schedule.DefaultConfig())
	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		TournamentController: tournament.NewController(reg, schedules, 5, logger),
		Registry:             reg,
	})

	_, err := reg.Enroll(context.Background(), "T1", model.Competitor{ID: "p1", DisplayName: "Ann"})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/tournaments/T1/pairings", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, apierr.CodeInternalError, decode[apierr.ErrorResponse](t, rr).Error.Code)
	assert.NotContains(t, rr.Body.String(), "connection reset")
}

func TestEscapedIDsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/club%2F2024/competitors",
		map[string]string{"id": "u/1", "username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/tournaments/club%2F2024/competitors", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.CompetitorsResponse](t, rr)
	assert.Equal(t, "club/2024", list.TournamentID)
	require.Len(t, list.Competitors, 1)

	competitors, err := ts.app.Registry.List(context.Background(), "club/2024")
	require.NoError(t, err)
	assert.Len(t, competitors, 1)

	rr = ts.request(http.MethodDelete, "/api/v1/tournaments/club%2F2024/competitors/u%2F1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
