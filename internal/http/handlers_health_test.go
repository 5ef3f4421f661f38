package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	t.Run("GET returns ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		healthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("HEAD has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		healthHandler(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, rec.Body.Len())
	})
}

func TestReadinessHandler(t *testing.T) {
	ok := HealthCheck{Name: "postgres", Probe: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Probe: func(context.Context) error { return errors.New("dial tcp: refused") }}

	t.Run("all probes healthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readinessHandler{checks: []HealthCheck{ok}}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body healthBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, map[string]string{"postgres": "ok"}, body.Checks)
	})

	t.Run("one failing probe returns 503", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readinessHandler{checks: []HealthCheck{ok, down}}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body healthBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "unavailable", body.Status)
		assert.Equal(t, "ok", body.Checks["postgres"])
		assert.Equal(t, "unavailable", body.Checks["redis"])
		assert.NotContains(t, rec.Body.String(), "refused")
	})

	t.Run("probes share the request deadline", func(t *testing.T) {
		var sawDeadline bool
		check := HealthCheck{Name: "postgres", Probe: func(ctx context.Context) error {
			_, sawDeadline = ctx.Deadline()
			return nil
		}}
		rec := httptest.NewRecorder()
		readinessHandler{checks: []HealthCheck{check}}.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, sawDeadline)
		assert.Zero(t, rec.Body.Len())
	})
}
