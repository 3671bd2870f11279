package ratelimiter

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/clientip"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

// KeyFunc picks the bucket of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets by the resolved client address.
func ByClientIP(r *http.Request) string {
	return clientip.FromRequest(r)
}

type middlewareConfig struct {
	log *slog.Logger
}

type MiddlewareOption func(*middlewareConfig)

func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware throttles requests through limiter. Store failures let the
// request through; an outage of the limiter must not take generation down.
func Middleware(limiter Limiter, key KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), k)
			if err != nil {
				cfg.log.WarnContext(r.Context(), "rate limiter unavailable",
					logger.Error(err), logger.Component("ratelimiter"))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if res.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			wait := max(1, int(res.RetryAfter().Seconds()+0.5))
			h.Set("Retry-After", strconv.Itoa(wait))
			cfg.log.InfoContext(r.Context(), "rate limit exceeded",
				logger.Component("ratelimiter"), slog.String("path", r.URL.Path))

			rejected := apperr.RateLimited("rate_limited",
				fmt.Sprintf("Too many requests. Try again in %d seconds.", wait))
			_ = handler.JSONError(rejected).Render(w, r)
		})
	}
}
