package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/mcoot/swisspairing/internal/testutil"
)

func TestRecoveryWritesAPIError(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, rr.Body.String())
}

func TestLoggingTagsTournament(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	r := mux.NewRouter()
	r.Use(Logging(logger))
	r.HandleFunc("/tournaments/{id}/rankings", func(w http.ResponseWriter, r *http.Request) {})
	r.HandleFunc("/rankings", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tournaments/T1/rankings", nil))
	assert.Contains(t, buf.String(), `"tournament_id":"T1"`)

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rankings?tournament_id=T2", nil))
	assert.Contains(t, buf.String(), `"tournament_id":"T2"`)
}
