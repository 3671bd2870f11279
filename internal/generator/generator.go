package generator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/metrics"
	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

const (
	// MaxReferences caps retrieved templates per generation.
	MaxReferences = 3

	enhanceTemperature = 0.7
	enhanceMaxTokens   = 300
	subjectTemperature = 0.7
	subjectMaxTokens   = 60
	subjectMaxRunes    = 150

	modeNew  = "new"
	modeEdit = "edit"
)

// Retriever finds stored templates similar to a prompt. It must not fail;
// no references is a valid answer. *templates.Service satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, prompt string, limit int) []templates.Template
}

// Generator runs the generation pipeline.
type Generator struct {
	llm       llm.Completer
	retriever Retriever
	sanitizer *sanitizer.Sanitizer
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRetriever supplies reference templates for RAG generation. Without one
// the prompt carries no references.
func WithRetriever(r Retriever) Option {
	return func(g *Generator) { g.retriever = r }
}

// WithSanitizer replaces the default output sanitizer. Nil is ignored.
func WithSanitizer(s *sanitizer.Sanitizer) Option {
	return func(g *Generator) {
		if s != nil {
			g.sanitizer = s
		}
	}
}

// WithMetrics records generation outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLogger sets the logger. Nil keeps slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a Generator. A nil completer makes every Generate call fail
// with a configuration error.
func New(completer llm.Completer, opts ...Option) *Generator {
	g := &Generator{
		llm:       completer,
		sanitizer: sanitizer.New(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("generator"))
	return g
}

// Input is a generation request.
type Input struct {
	Prompt      string
	History     []llm.Message
	CurrentHTML string
	Images      []llm.Image

	// UseRAG retrieves reference templates in new-document mode.
	UseRAG bool
	// Enhance rewrites the prompt before retrieval in new-document mode.
	Enhance bool
}

// Result is a generated document.
type Result struct {
	HTML       string  `json:"html"`
	Subject    string  `json:"subject"`
	Changes    *string `json:"changes"`
	Model      string  `json:"model"`
	RAGEnabled bool    `json:"rag_enabled"`
	ImagesUsed int     `json:"images_used"`
}

// Generate produces one email document.
func (g *Generator) Generate(ctx context.Context, in Input) (res *Result, err error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, apperr.Validation("prompt_required", "Prompt is required")
	}
	if len(in.Images) > MaxImages {
		return nil, tooManyImages()
	}
	if g.llm == nil {
		return nil, apperr.Wrap(ErrLLMNotAvailable, apperr.KindConfiguration, "llm_not_configured", "Language model is not configured")
	}

	build := BuildInput{
		Prompt:      prompt,
		History:     in.History,
		CurrentHTML: in.CurrentHTML,
		Images:      in.Images,
	}
	mode := modeNew
	if build.EditMode() {
		mode = modeEdit
	}

	start := time.Now()
	defer func() { g.metrics.ObserveGeneration(mode, err, time.Since(start)) }()

	if mode == modeNew {
		if in.Enhance {
			build.Prompt = g.Enhance(ctx, prompt)
		}
		if in.UseRAG {
			build.References = g.references(ctx, build.Prompt)
		}
	}

	req, err := Build(build)
	if err != nil {
		return nil, err
	}

	resp, err := g.llm.Complete(ctx, req)
	if err != nil {
		g.log.ErrorContext(ctx, "generation failed", logger.Mode(mode), logger.Error(err))
		return nil, apperr.Provider(err, "generation_failed", "Failed to generate email")
	}

	doc, err := g.sanitizer.Sanitize(resp.Content)
	if err != nil {
		if errors.Is(err, sanitizer.ErrNoHTML) {
			return nil, apperr.Content(err, "invalid_html",
				"AI did not generate valid HTML. Please try again with a more specific prompt.")
		}
		return nil, apperr.Internal(err, "sanitize_failed", "Failed to process generated email")
	}

	subject := doc.Subject
	if !doc.HasSubject() {
		subject = g.Subject(ctx, prompt)
	}

	res = &Result{
		HTML:       doc.HTML,
		Subject:    subject,
		Model:      resp.Model,
		RAGEnabled: len(build.References) > 0 && mode == modeNew,
		ImagesUsed: len(in.Images),
	}
	if res.Model == "" {
		res.Model = g.llm.Model()
	}
	if doc.Changes != "" {
		changes := doc.Changes
		res.Changes = &changes
	}

	g.log.InfoContext(ctx, "email generated",
		logger.Mode(mode),
		logger.Model(res.Model),
		logger.Count(len(build.References)),
		logger.Duration(time.Since(start)),
	)
	return res, nil
}

func (g *Generator) references(ctx context.Context, prompt string) []Reference {
	if g.retriever == nil {
		return nil
	}
	found := g.retriever.Retrieve(ctx, prompt, MaxReferences)
	if len(found) > MaxReferences {
		found = found[:MaxReferences]
	}
	refs := make([]Reference, len(found))
	for i, tpl := range found {
		refs[i] = Reference{Subject: tpl.Subject, Description: tpl.Description, HTML: tpl.TemplateCode}
	}
	return refs
}

// Enhance rewrites prompt into a detailed generation prompt. Any failure or
// empty answer returns prompt unchanged.
func (g *Generator) Enhance(ctx context.Context, prompt string) string {
	resp, err := g.llm.Complete(ctx, llm.Request{
		System:      EnhancerPrompt,
		Messages:    []llm.Message{llm.UserText(prompt)},
		MaxTokens:   enhanceMaxTokens,
		Temperature: enhanceTemperature,
	})
	if err != nil {
		g.log.WarnContext(ctx, "prompt enhancement failed", logger.Error(err))
		return prompt
	}
	enhanced := strings.TrimSpace(resp.Content)
	if enhanced == "" {
		return prompt
	}
	g.log.DebugContext(ctx, "prompt enhanced", slog.String("from", prompt), slog.String("to", enhanced))
	return enhanced
}

// Subject writes a subject line for prompt. Any failure or empty answer
// returns PlaceholderSubject.
func (g *Generator) Subject(ctx context.Context, prompt string) string {
	resp, err := g.llm.Complete(ctx, llm.Request{
		System:      SubjectPrompt,
		Messages:    []llm.Message{llm.UserText("Email description: " + prompt)},
		MaxTokens:   subjectMaxTokens,
		Temperature: subjectTemperature,
	})
	if err != nil {
		g.log.WarnContext(ctx, "subject generation failed", logger.Error(err))
		return PlaceholderSubject
	}
	subject := sanitizer.Apply(resp.Content, sanitizer.StripQuotes, sanitizer.SingleLine)
	subject = sanitizer.Truncate(subject, subjectMaxRunes)
	if subject == "" {
		return PlaceholderSubject
	}
	return subject
}
