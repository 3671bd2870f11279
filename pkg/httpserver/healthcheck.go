package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

// Dependency states reported by the health handler.
const (
	StatusConnected     = "connected"
	StatusNotConfigured = "not configured"
	StatusError         = "error"

	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Check describes one optional backend. A nil Ping marks the backend as
// not configured, which does not degrade overall health.
type Check struct {
	Name string
	Ping func(context.Context) error
}

// HealthCheckHandler reports the state of every dependency as a flat JSON
// object, e.g. {"status":"healthy","database":"connected","openai":"not configured"}.
// Any failing ping turns the status into "degraded" and the response code into 503.
func HealthCheckHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		body := make(map[string]string, len(checks)+1)
		code := http.StatusOK
		body["status"] = StatusHealthy

		for _, c := range checks {
			if c.Ping == nil {
				body[c.Name] = StatusNotConfigured
				continue
			}
			if err := c.Ping(ctx); err != nil {
				log.WarnContext(ctx, "health check failed",
					logger.Component(c.Name), logger.Error(err))
				body[c.Name] = StatusError
				body["status"] = StatusDegraded
				code = http.StatusServiceUnavailable
				continue
			}
			body[c.Name] = StatusConnected
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}
