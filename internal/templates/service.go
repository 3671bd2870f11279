package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/async"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/metrics"
	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 20
	DefaultListLimit   = 50
	MaxListLimit       = 200

	// candidateFactor widens each hybrid branch so fusion has overlap to work with.
	candidateFactor = 2
)

// Service implements template storage and retrieval on top of a Repository.
type Service struct {
	repo     Repository
	embedder Embedder
	fusion   FusionConfig
	metrics  *metrics.Metrics
	log      *slog.Logger
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithFusion(cfg FusionConfig) Option {
	return func(s *Service) { s.fusion = cfg }
}

// NewService builds a Service. A nil repo or embedder disables the
// operations that need them.
func NewService(repo Repository, embedder Embedder, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		embedder: embedder,
		fusion:   defaultFusion(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("templates"))
	return s
}

// Enabled reports whether both storage and embeddings are available.
func (s *Service) Enabled() bool {
	return s.repo != nil && s.embedder != nil
}

// SaveInput is a template to store.
type SaveInput struct {
	Subject      string
	Description  string
	TemplateCode string
	Category     string
	Visibility   string
	Sender       string
}

// Save stores a template with an embedding of "{subject} {description}".
func (s *Service) Save(ctx context.Context, in SaveInput) (*Template, error) {
	tpl, err := normalize(in)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, tpl, tpl.Subject+" "+tpl.Description)
}

func (s *Service) insert(ctx context.Context, tpl NewTemplate, embedText string) (*Template, error) {
	if s.repo == nil {
		return nil, notConfigured()
	}
	if s.embedder == nil {
		return nil, embedderMissing()
	}

	vec, err := s.embedder.ToVector(ctx, embedText)
	if err != nil {
		return nil, apperr.Provider(err, "embedding_failed", "Failed to generate template embedding")
	}

	saved, err := s.repo.Insert(ctx, tpl, vec)
	if err != nil {
		return nil, apperr.Internal(err, "template_save_failed", "Failed to save template")
	}

	s.log.InfoContext(ctx, "template saved", logger.TemplateID(saved.ID))
	return saved, nil
}

func normalize(in SaveInput) (NewTemplate, error) {
	tpl := NewTemplate{
		Subject:      sanitizer.SingleLine(strings.TrimSpace(in.Subject)),
		Description:  strings.TrimSpace(in.Description),
		TemplateCode: strings.TrimSpace(in.TemplateCode),
		Category:     strings.TrimSpace(in.Category),
		Visibility:   strings.ToLower(strings.TrimSpace(in.Visibility)),
		Sender:       sanitizer.NormalizeEmail(in.Sender),
	}
	switch {
	case tpl.Subject == "":
		return tpl, apperr.Validation("subject_required", "Subject is required")
	case tpl.Description == "":
		return tpl, apperr.Validation("description_required", "Description is required")
	case tpl.TemplateCode == "":
		return tpl, apperr.Validation("template_code_required", "Template code is required")
	}
	if tpl.Category == "" {
		tpl.Category = DefaultCategory
	}
	switch tpl.Visibility {
	case "":
		tpl.Visibility = DefaultVisibility
	case "public", "private":
	default:
		return tpl, apperr.Validation("invalid_visibility", "Visibility must be public or private")
	}
	return tpl, nil
}

// SearchInput describes a similarity search.
type SearchInput struct {
	Query  string
	Limit  int
	Hybrid bool
}

// SearchResult holds ranked templates. Fallback is set when a hybrid search
// was answered by the semantic ranking alone.
type SearchResult struct {
	Query      string
	SearchType string
	Fallback   bool
	Templates  []Template
}

// ClampSearchLimit maps a requested limit into [1, MaxSearchLimit], 0 meaning the default.
func ClampSearchLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultSearchLimit
	case limit < 1:
		return 1
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

func (s *Service) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, apperr.Validation("query_required", "Search query is required")
	}
	if s.repo == nil {
		return nil, notConfigured()
	}
	if s.embedder == nil {
		return nil, embedderMissing()
	}
	limit := ClampSearchLimit(in.Limit)

	vec, err := s.embedder.ToVector(ctx, query)
	if err != nil {
		return nil, apperr.Provider(err, "embedding_failed", "Failed to embed search query")
	}

	res := &SearchResult{Query: query, SearchType: SearchSemantic}
	if in.Hybrid {
		templates, mode, err := s.hybrid(ctx, query, vec, limit)
		if err != nil {
			return nil, apperr.Internal(err, "template_search_failed", "Failed to search templates")
		}
		res.Templates = templates
		res.SearchType = SearchHybrid
		if mode == metrics.RetrievalSemanticFallback {
			res.SearchType = SearchSemantic
			res.Fallback = true
		}
	} else {
		res.Templates, err = s.repo.SearchSemantic(ctx, vec, limit)
		if err != nil {
			return nil, apperr.Internal(err, "template_search_failed", "Failed to search templates")
		}
	}

	s.log.DebugContext(ctx, "templates searched",
		logger.Mode(res.SearchType), logger.Count(len(res.Templates)))
	return res, nil
}

// Retrieve returns up to limit references for prompt. It never fails: a
// missing backend or any error yields no references. The search path taken is
// recorded as a retrieval metric.
func (s *Service) Retrieve(ctx context.Context, prompt string, limit int) []Template {
	prompt = strings.TrimSpace(prompt)
	if !s.Enabled() || prompt == "" {
		s.metrics.ObserveRetrieval(metrics.RetrievalUnavailable)
		return nil
	}

	vec, err := s.embedder.ToVector(ctx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "reference retrieval skipped", logger.Error(err))
		s.metrics.ObserveRetrieval(metrics.RetrievalError)
		return nil
	}

	templates, mode, err := s.hybrid(ctx, prompt, vec, limit)
	if err != nil {
		s.log.WarnContext(ctx, "reference retrieval failed", logger.Error(err))
		s.metrics.ObserveRetrieval(metrics.RetrievalError)
		return nil
	}

	s.metrics.ObserveRetrieval(mode)
	s.log.InfoContext(ctx, "reference templates retrieved", logger.Mode(mode), logger.Count(len(templates)))
	return templates
}

// hybrid runs keyword and semantic search concurrently and fuses the rankings.
// A keyword failure degrades to the semantic ranking; a semantic failure is returned.
func (s *Service) hybrid(ctx context.Context, query string, vec vectorizer.Vector, limit int) ([]Template, string, error) {
	candidates := limit * candidateFactor

	keywordF := async.Go(ctx, func(ctx context.Context) ([]Template, error) {
		return s.repo.SearchKeyword(ctx, query, candidates)
	})
	semanticF := async.Go(ctx, func(ctx context.Context) ([]Template, error) {
		return s.repo.SearchSemantic(ctx, vec, candidates)
	})

	keyword, keywordErr := keywordF.Wait(ctx)
	semantic, semanticErr := semanticF.Wait(ctx)

	if semanticErr != nil {
		return nil, "", errors.Join(semanticErr, keywordErr)
	}
	if keywordErr != nil {
		s.log.WarnContext(ctx, "keyword search failed, using semantic ranking", logger.Error(keywordErr))
		if len(semantic) > limit {
			semantic = semantic[:limit]
		}
		return semantic, metrics.RetrievalSemanticFallback, nil
	}

	return Fuse(keyword, semantic, s.fusion, limit), metrics.RetrievalHybrid, nil
}

// List returns the newest templates first.
func (s *Service) List(ctx context.Context, limit int) ([]Template, error) {
	if s.repo == nil {
		return nil, notConfigured()
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	templates, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperr.Internal(err, "template_list_failed", "Failed to list templates")
	}
	return templates, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Template, error) {
	if s.repo == nil {
		return nil, notConfigured()
	}
	tpl, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrTemplateNotFound) {
		return nil, apperr.Wrap(err, apperr.KindNotFound, "template_not_found", "Template not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "template_get_failed", "Failed to get template")
	}
	return tpl, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.repo == nil {
		return notConfigured()
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, "template_delete_failed", "Failed to delete template")
	}
	if !deleted {
		return apperr.Wrap(ErrTemplateNotFound, apperr.KindNotFound, "template_not_found", "Template not found")
	}
	s.log.InfoContext(ctx, "template deleted", logger.TemplateID(id))
	return nil
}

// BackfillResult summarizes an embedding backfill.
type BackfillResult struct {
	Total   int
	Updated int
	Failed  int
}

// Backfill embeds every template stored without an embedding. Per-row failures
// are counted and logged; only listing the rows can fail the call.
func (s *Service) Backfill(ctx context.Context) (*BackfillResult, error) {
	if s.repo == nil {
		return nil, notConfigured()
	}
	if s.embedder == nil {
		return nil, embedderMissing()
	}

	pending, err := s.repo.ListMissingEmbeddings(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "backfill_failed", "Failed to list templates without embeddings")
	}

	res := &BackfillResult{Total: len(pending)}
	for _, tpl := range pending {
		if err := s.embedOne(ctx, tpl); err != nil {
			res.Failed++
			s.log.WarnContext(ctx, "embedding backfill failed", logger.TemplateID(tpl.ID), logger.Error(err))
			continue
		}
		res.Updated++
	}

	s.log.InfoContext(ctx, "embedding backfill finished",
		logger.Count(res.Updated), slog.Int("failed", res.Failed))
	return res, nil
}

func (s *Service) embedOne(ctx context.Context, tpl Template) error {
	vec, err := s.embedder.ToVector(ctx, tpl.Subject+" "+tpl.Description)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	return s.repo.UpdateEmbedding(ctx, tpl.ID, vec)
}
