package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/httpserver"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
		t.Helper()
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("all connected", func(t *testing.T) {
		t.Parallel()
		h := httpserver.HealthCheckHandler(log, time.Second,
			httpserver.Check{Name: "database", Ping: ok},
			httpserver.Check{Name: "openai", Ping: ok},
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, map[string]string{
			"status":   "healthy",
			"database": "connected",
			"openai":   "connected",
		}, decode(t, rec))
	})

	t.Run("unconfigured backend stays healthy", func(t *testing.T) {
		t.Parallel()
		h := httpserver.HealthCheckHandler(log, time.Second,
			httpserver.Check{Name: "database"},
			httpserver.Check{Name: "openai", Ping: ok},
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "not configured", body["database"])
	})

	t.Run("failing ping degrades", func(t *testing.T) {
		t.Parallel()
		h := httpserver.HealthCheckHandler(log, time.Second,
			httpserver.Check{Name: "database", Ping: fail},
			httpserver.Check{Name: "redis", Ping: ok},
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "error", body["database"])
		assert.Equal(t, "connected", body["redis"])
	})

	t.Run("ping receives deadline", func(t *testing.T) {
		t.Parallel()
		var hasDeadline bool
		h := httpserver.HealthCheckHandler(nil, 50*time.Millisecond,
			httpserver.Check{Name: "database", Ping: func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			}},
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.True(t, hasDeadline)
	})
}
