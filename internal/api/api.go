package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/mailcraft/internal/generator"
	"github.com/dmitrymomot/mailcraft/internal/mailer"
	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/binder"
	"github.com/dmitrymomot/mailcraft/pkg/clientip"
	"github.com/dmitrymomot/mailcraft/pkg/file"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/metrics"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
	"github.com/dmitrymomot/mailcraft/pkg/requestid"
)

const (
	ServiceName    = "Gmail OAuth Email Sender & AI Email Generator with RAG"
	ServiceVersion = "2.0.0"
)

// Features reports which optional integrations are configured.
type Features struct {
	Database bool `json:"database_configured"`
	RAG      bool `json:"rag_enabled"`
	AI       bool `json:"ai_enabled"`
	S3       bool `json:"s3_storage"`
}

// Deps are the services behind the routes. Nil services answer with a
// configuration error where the route needs them.
type Deps struct {
	Mailer    *mailer.Service
	Generator *generator.Generator
	Templates *templates.Service
	Images    *file.Images

	// ImagesDir is served under ImagesPath when set.
	ImagesDir  string
	ImagesPath string

	// RateLimiter throttles the routes that call the language model or
	// send mail. Nil disables throttling.
	RateLimiter ratelimiter.Limiter

	Health   http.Handler
	Metrics  *metrics.Metrics
	Features Features
	Log      *slog.Logger

	FrontendURL    string
	AllowedOrigins []string
	// EnhancePrompts rewrites prompts before retrieval on the RAG route.
	EnhancePrompts bool
	// AttachmentMaxSize limits each image attached to a generation request.
	AttachmentMaxSize int64
}

type API struct {
	Deps
	adapter *handler.Adapter
}

// New builds the API over d.
func New(d Deps) *API {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	d.Log = d.Log.With(logger.Component("api"))
	if d.AttachmentMaxSize <= 0 {
		d.AttachmentMaxSize = 20 << 20
	}
	if d.ImagesPath == "" {
		d.ImagesPath = "/images"
	}
	return &API{
		Deps: d,
		adapter: handler.NewAdapter(
			handler.WithValidator(handler.NewValidator()),
			handler.WithErrorHandler(handler.NewErrorHandler(d.Log)),
		),
	}
}

// Routes returns the router with all middleware installed.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		clientip.Middleware,
		requestid.Middleware,
		a.Metrics.Middleware,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   a.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{requestid.Header, "Retry-After", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           int((12 * time.Hour).Seconds()),
		}),
	)

	r.Get("/", a.info)
	if a.Health != nil {
		r.Method(http.MethodGet, "/health", a.Health)
	}
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	r.Get("/connect/google", wrap(a, a.connectGoogle))
	r.Get("/auth/google/callback", wrap(a, a.googleCallback, binder.Query()))
	r.Get("/check-connection/{session_id}", wrap(a, a.checkConnection, binder.Path(chi.URLParam)))
	r.Post("/disconnect/{session_id}", wrap(a, a.disconnect, binder.Path(chi.URLParam)))

	limited := r.With(a.throttle)
	limited.Post("/send-email", wrap(a, a.sendEmail, binder.Form(), binder.JSON()))
	limited.Post("/generate-email", wrap(a, a.generateEmail, binder.Form(), binder.JSON()))
	limited.Post("/generate-email-rag", wrap(a, a.generateEmailRAG, binder.Form(), binder.JSON()))

	r.Post("/save-template", wrap(a, a.saveTemplate, binder.Form(), binder.JSON()))
	r.Post("/search-templates", wrap(a, a.searchTemplates, binder.Form(), binder.JSON()))
	r.Get("/list-templates", wrap(a, a.listTemplates, binder.Query()))
	r.Get("/get-template/{id}", wrap(a, a.getTemplate, binder.Path(chi.URLParam)))
	r.Delete("/delete-template/{id}", wrap(a, a.deleteTemplate, binder.Path(chi.URLParam)))
	r.Post("/generate-embeddings", wrap(a, a.generateEmbeddings))

	r.Post("/upload-image", wrap(a, a.uploadImage, binder.FormWithMaxMemory(file.MaxImageSize*2)))
	r.Get("/list-images", wrap(a, a.listImages))
	r.Delete("/delete-image/{filename}", wrap(a, a.deleteImage, binder.Path(chi.URLParam)))

	if a.ImagesDir != "" {
		prefix := "/" + strings.Trim(a.ImagesPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(a.ImagesDir))))
	}

	return r
}

func (a *API) throttle(next http.Handler) http.Handler {
	if a.RateLimiter == nil {
		return next
	}
	return ratelimiter.Middleware(a.RateLimiter, ratelimiter.ByClientIP, ratelimiter.WithLogger(a.Log))(next)
}

func wrap[R any](a *API, h handler.Func[R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Handle(a.adapter, h, binders...)
}

// empty is the request of routes that bind nothing.
type empty struct{}
