package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mailcraft/internal/api"
	"github.com/dmitrymomot/mailcraft/internal/config"
	"github.com/dmitrymomot/mailcraft/internal/db/migrations"
	"github.com/dmitrymomot/mailcraft/internal/generator"
	"github.com/dmitrymomot/mailcraft/internal/mailer"
	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/async"
	"github.com/dmitrymomot/mailcraft/pkg/auth"
	"github.com/dmitrymomot/mailcraft/pkg/clientip"
	"github.com/dmitrymomot/mailcraft/pkg/file"
	"github.com/dmitrymomot/mailcraft/pkg/httpserver"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/metrics"
	"github.com/dmitrymomot/mailcraft/pkg/pg"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
	"github.com/dmitrymomot/mailcraft/pkg/redis"
	"github.com/dmitrymomot/mailcraft/pkg/requestid"
	"github.com/dmitrymomot/mailcraft/pkg/secrets"
	"github.com/dmitrymomot/mailcraft/pkg/session"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

const tokenPurpose = "session-refresh-token"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(append(cfg.Log.Options(),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()))...)
	slog.SetDefault(log)

	m := metrics.New()
	runner := async.NewRunner(log, async.WithTaskTimeout(cfg.BackgroundTaskTimeout))
	checks := make([]httpserver.Check, 0, 4)

	// Postgres backs the template library. Without it RAG is disabled.
	var repo templates.Repository
	dbCheck := httpserver.Check{Name: "database"}
	if cfg.Postgres.Enabled() {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.Postgres.AutoMigrate {
			if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
				return err
			}
		}
		repo = templates.NewPostgresRepository(pool)
		dbCheck.Ping = pg.Healthcheck(pool)
	} else {
		log.Warn("DATABASE_URL not set, template library disabled")
	}
	checks = append(checks, dbCheck)

	// Redis keeps sessions and OAuth state across restarts and replicas.
	var redisClient *goredis.Client
	redisCheck := httpserver.Check{Name: "redis"}
	if cfg.Redis.Enabled() {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		redisCheck.Ping = redis.Healthcheck(redisClient)
	}
	checks = append(checks, redisCheck)

	var (
		completer llm.Completer
		embedder  templates.Embedder
	)
	aiCheck := httpserver.Check{Name: "openai"}
	if cfg.AIEnabled() {
		client, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}
		completer = client

		provider, err := vectorizer.NewOpenAIProvider(cfg.Embedding)
		if err != nil {
			return err
		}
		vec, err := vectorizer.New(provider, vectorizer.WithCache(cfg.EmbeddingCacheSize))
		if err != nil {
			return err
		}
		embedder = vec
		aiCheck.Ping = func(context.Context) error { return nil }
	} else {
		log.Warn("OPENAI_API_KEY not set, generation disabled")
	}
	checks = append(checks, aiCheck)

	tpls := templates.NewService(repo, embedder,
		templates.WithLogger(log),
		templates.WithMetrics(m),
		templates.WithFusion(cfg.Fusion),
	)

	var gen *generator.Generator
	if completer != nil {
		gen = generator.New(completer,
			generator.WithRetriever(tpls),
			generator.WithMetrics(m),
			generator.WithLogger(log),
		)
	}

	mail, err := newMailer(ctx, cfg, redisClient, tpls, completer, runner, m, log)
	if err != nil {
		return err
	}

	images, imagesDir, err := newImages(ctx, cfg)
	if err != nil {
		return err
	}

	limiter, err := newRateLimiter(ctx, cfg, redisClient)
	if err != nil {
		return err
	}

	router := api.New(api.Deps{
		Mailer:      mail,
		Generator:   gen,
		Templates:   tpls,
		Images:      images,
		ImagesDir:   imagesDir,
		ImagesPath:  cfg.Images.BaseURL,
		RateLimiter: limiter,
		Health:      httpserver.HealthCheckHandler(log, cfg.HealthTimeout, checks...),
		Metrics:     m,
		Features: api.Features{
			Database: repo != nil,
			RAG:      tpls.Enabled(),
			AI:       completer != nil,
			S3:       imagesDir == "",
		},
		Log:            log,
		FrontendURL:    cfg.FrontendURL,
		AllowedOrigins: cfg.AllowedOrigins(),
		EnhancePrompts: cfg.EnhancePrompts,
	}).Routes()

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.OnShutdown(func(ctx context.Context) {
			waitCtx, cancel := context.WithTimeout(ctx, cfg.BackgroundTaskTimeout)
			defer cancel()
			if err := runner.Wait(waitCtx); err != nil {
				log.Warn("background tasks still running at shutdown", logger.Error(err))
			}
		}),
	)
	return srv.Run(ctx, router)
}

func newMailer(
	ctx context.Context,
	cfg *config.Config,
	redisClient *goredis.Client,
	tpls *templates.Service,
	completer llm.Completer,
	runner *async.Runner,
	m *metrics.Metrics,
	log *slog.Logger,
) (*mailer.Service, error) {
	key, err := secrets.ParseKey(cfg.Session.EncryptionKey)
	if err != nil {
		return nil, err
	}
	cipher, err := secrets.NewCipher(key, tokenPurpose)
	if err != nil {
		return nil, err
	}

	var (
		store  session.Store
		states auth.StateStore
	)
	if redisClient != nil {
		store = session.NewRedisStore(redis.NewStorage(redisClient, cfg.Redis.KeyPrefix+cfg.Session.KeyPrefix))
		states = auth.NewRedisStateStore(redis.NewStorage(redisClient, cfg.Redis.KeyPrefix+"oauth_state:"))
	} else {
		memory := session.NewMemoryStore(cfg.Session.CleanupInterval)
		go func() {
			<-ctx.Done()
			_ = memory.Close()
		}()
		store = memory
		states = auth.NewMemoryStateStore()
	}

	sessions := session.NewManager(store, cipher,
		session.WithTTL(cfg.Session.TTL),
		session.WithLogger(log),
	)

	opts := []mailer.Option{
		mailer.WithMetrics(m),
		mailer.WithLogger(log),
	}

	provider, err := auth.NewGoogleProvider(cfg.Google, states, auth.WithGoogleLogger(log))
	switch {
	case err == nil:
		opts = append(opts, mailer.WithProvider(provider))
	case errors.Is(err, auth.ErrNotConfigured):
		log.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, Gmail connection disabled")
	default:
		return nil, err
	}

	if saver := templates.NewAutoSaver(tpls, completer); saver != nil {
		opts = append(opts, mailer.WithArchiver(saver, runner))
	}

	return mailer.New(sessions, opts...), nil
}

// newRateLimiter shares buckets through Redis when it is available.
// A disabled limit yields a nil Limiter.
func newRateLimiter(ctx context.Context, cfg *config.Config, redisClient *goredis.Client) (ratelimiter.Limiter, error) {
	if !cfg.RateLimit.Enabled() {
		return nil, nil
	}

	var store ratelimiter.Store
	if redisClient != nil {
		cfg.RateLimit.KeyPrefix = cfg.Redis.KeyPrefix + cfg.RateLimit.KeyPrefix
		store = ratelimiter.NewRedisStore(redisClient)
	} else {
		memory := ratelimiter.NewMemoryStore()
		go func() {
			<-ctx.Done()
			_ = memory.Close()
		}()
		store = memory
	}

	bucket, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

// newImages returns the image store and, for local storage, the directory to
// serve it from.
func newImages(ctx context.Context, cfg *config.Config) (*file.Images, string, error) {
	if cfg.S3.Enabled() {
		storage, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return file.NewImages(storage, file.WithImageDir("images")), "", nil
	}

	storage, err := file.NewLocalStorage(cfg.Images.Dir, cfg.Images.BaseURL, file.WithLocalMaxSize(file.MaxImageSize))
	if err != nil {
		return nil, "", err
	}
	return file.NewImages(storage), cfg.Images.Dir, nil
}
