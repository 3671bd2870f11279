// Package config composes the per-package configurations of the server.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/auth"
	pkgconfig "github.com/dmitrymomot/mailcraft/pkg/config"
	"github.com/dmitrymomot/mailcraft/pkg/file"
	"github.com/dmitrymomot/mailcraft/pkg/httpserver"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/pg"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
	"github.com/dmitrymomot/mailcraft/pkg/redis"
	"github.com/dmitrymomot/mailcraft/pkg/session"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

// Config is the full server configuration.
type Config struct {
	// FrontendURL receives the OAuth callback redirect.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	// CORSOrigins lists allowed browser origins. FrontendURL is always allowed.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// EnhancePrompts rewrites prompts before retrieval on the RAG route.
	EnhancePrompts bool `env:"ENHANCE_PROMPTS" envDefault:"true"`
	// BackgroundTaskTimeout bounds auto-save work after a send.
	BackgroundTaskTimeout time.Duration `env:"BACKGROUND_TASK_TIMEOUT" envDefault:"2m"`
	// EmbeddingCacheSize is the number of query embeddings kept in memory.
	// Zero disables the cache.
	EmbeddingCacheSize int `env:"EMBEDDING_CACHE_SIZE" envDefault:"256"`
	// HealthTimeout bounds the dependency pings of /health.
	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT" envDefault:"2s"`

	Log       logger.Config
	HTTP      httpserver.Config
	Postgres  pg.Config
	Redis     redis.Config
	Google    auth.GoogleConfig
	Session   session.Config
	LLM       llm.Config
	Embedding vectorizer.OpenAIConfig
	Fusion    templates.FusionConfig
	S3        file.S3Config
	Images    file.LocalConfig
	RateLimit ratelimiter.Config
}

var ErrNoFrontendURL = errors.New("config: FRONTEND_URL must not be empty")

// Load reads the configuration from the environment and .env.
func Load(opts ...pkgconfig.Option) (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")
	if cfg.FrontendURL == "" {
		return nil, ErrNoFrontendURL
	}
	return &cfg, nil
}

// AllowedOrigins returns the CORS origins with FrontendURL first and
// duplicates removed.
func (c *Config) AllowedOrigins() []string {
	seen := make(map[string]struct{}, len(c.CORSOrigins)+1)
	out := make([]string, 0, len(c.CORSOrigins)+1)
	for _, o := range append([]string{c.FrontendURL}, c.CORSOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

// AIEnabled reports whether an OpenAI key is configured.
func (c *Config) AIEnabled() bool {
	return c.LLM.APIKey != ""
}
