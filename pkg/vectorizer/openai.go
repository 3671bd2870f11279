package vectorizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultOpenAIModel balances quality and cost.
	DefaultOpenAIModel = "text-embedding-3-small"

	// Maximum texts per batch request.
	maxBatchSize = 100
)

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Dimensions requests shortened embeddings from text-embedding-3 models.
	// Zero keeps the model's native size.
	Dimensions int `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	// HTTPClient overrides the transport. Used by tests.
	HTTPClient *http.Client `env:"-"`
}

// OpenAIProvider implements Provider using the OpenAI embeddings API.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	dimensions int
	shorten    bool
}

// NewOpenAIProvider creates a new OpenAI embedding provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	native := modelDimensions(model)
	if native == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, model)
	}

	dims := native
	shorten := false
	if cfg.Dimensions > 0 && cfg.Dimensions != native {
		if cfg.Dimensions > native || !strings.HasPrefix(model, "text-embedding-3") {
			return nil, fmt.Errorf("%w: %d for %s", ErrInvalidDimensions, cfg.Dimensions, model)
		}
		dims = cfg.Dimensions
		shorten = true
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: dims,
		shorten:    shorten,
	}, nil
}

// Embed sends texts in requests of at most maxBatchSize inputs each.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	all := make([]Vector, 0, len(texts))
	for chunk := range slices.Chunk(texts, maxBatchSize) {
		vectors, err := p.embed(ctx, chunk)
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

// Dimensions returns the vector dimensions for the current model.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

// Model returns the embedding model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) embed(ctx context.Context, texts []string) ([]Vector, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	if p.shorten {
		params.Dimensions = openai.Int(int64(p.dimensions))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrVectorizationFailed, len(resp.Data), len(texts))
	}

	vectors := make([]Vector, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(vectors) || vectors[item.Index] != nil {
			return nil, fmt.Errorf("%w: unexpected embedding index %d", ErrVectorizationFailed, item.Index)
		}
		vectors[item.Index] = Vector(item.Embedding)
	}
	return vectors, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return errors.Join(ErrRateLimitExceeded, err)
		case strings.Contains(strings.ToLower(apiErr.Message), "context length"),
			strings.Contains(strings.ToLower(apiErr.Message), "maximum input length"):
			return errors.Join(ErrContextLengthExceeded, err)
		}
	}
	return errors.Join(ErrVectorizationFailed, err)
}

func modelDimensions(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	default:
		return 0
	}
}
