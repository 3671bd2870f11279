package vectorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/mailcraft/pkg/cache"
)

// Vector is a text embedding. Its width is fixed by the model, 1536 for
// text-embedding-3-small.
type Vector []float64

// Float32 converts v for backends that store single precision values.
func (v Vector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// Provider is an embeddings backend.
type Provider interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([]Vector, error)
	// Dimensions is the width of every returned vector, or 0 when unknown.
	Dimensions() int
}

// Vectorizer trims input, checks provider output and optionally caches
// embeddings by text.
type Vectorizer struct {
	provider Provider
	cache    *cache.LRU[string, Vector]
}

type Option func(*Vectorizer)

// WithCache keeps up to size embeddings in memory. Search queries and
// generation prompts repeat often. A non-positive size disables the cache.
func WithCache(size int) Option {
	return func(v *Vectorizer) {
		if size > 0 {
			v.cache = cache.NewLRU[string, Vector](size)
		}
	}
}

func New(provider Provider, opts ...Option) (*Vectorizer, error) {
	if provider == nil {
		return nil, ErrProviderNotSet
	}
	v := &Vectorizer{provider: provider}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ToVector embeds one text. Blank input fails with ErrEmptyText.
func (v *Vectorizer) ToVector(ctx context.Context, text string) (Vector, error) {
	vectors, err := v.ToVectors(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// ToVectors embeds texts in one provider call, skipping texts already in the
// cache. The result is index-aligned with texts.
func (v *Vectorizer) ToVectors(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	var (
		missing []string
		slots   []int
	)
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyText, i)
		}
		if vec, ok := v.cached(text); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := v.provider.Embed(ctx, missing)
	if err != nil {
		if errors.Is(err, ErrVectorizationFailed) {
			return nil, err
		}
		return nil, errors.Join(ErrVectorizationFailed, err)
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrVectorizationFailed, len(fresh), len(missing))
	}

	dims := v.provider.Dimensions()
	for j, vec := range fresh {
		if dims > 0 && len(vec) != dims {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidDimensions, len(vec), dims)
		}
		out[slots[j]] = vec
		if v.cache != nil {
			v.cache.Put(missing[j], vec)
		}
	}
	return out, nil
}

func (v *Vectorizer) Dimensions() int {
	return v.provider.Dimensions()
}

func (v *Vectorizer) cached(text string) (Vector, bool) {
	if v.cache == nil {
		return nil, false
	}
	return v.cache.Get(text)
}
