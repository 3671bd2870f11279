package vectorizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions"`
}

func newEmbeddingServer(t *testing.T, handler func(w http.ResponseWriter, req embeddingRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIProvider(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{})
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("rejects unknown model", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "nope"})
		assert.ErrorIs(t, err, ErrInvalidModel)
	})

	t.Run("rejects dimensions above native size", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Dimensions: 4096})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})

	t.Run("rejects shortening legacy models", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "text-embedding-ada-002", Dimensions: 512})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})

	t.Run("defaults", func(t *testing.T) {
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultOpenAIModel, p.Model())
		assert.Equal(t, 1536, p.Dimensions())
	})

	t.Run("shortened large model", func(t *testing.T) {
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "text-embedding-3-large", Dimensions: 1536})
		require.NoError(t, err)
		assert.Equal(t, 1536, p.Dimensions())
	})
}

func TestOpenAIProvider_Embed(t *testing.T) {
	t.Run("returns vectors in index order", func(t *testing.T) {
		srv := newEmbeddingServer(t, func(w http.ResponseWriter, req embeddingRequest) {
			assert.Equal(t, "text-embedding-3-large", req.Model)
			assert.Equal(t, []string{"first", "second"}, req.Input)
			assert.Equal(t, 2, req.Dimensions)
			_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-large",
				"data":[{"object":"embedding","index":1,"embedding":[0.3,0.4]},
				        {"object":"embedding","index":0,"embedding":[0.1,0.2]}],
				"usage":{"prompt_tokens":2,"total_tokens":2}}`))
		})

		p, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:     "test-key",
			BaseURL:    srv.URL + "/v1/",
			Model:      "text-embedding-3-large",
			Dimensions: 2,
		})
		require.NoError(t, err)

		vectors, err := p.Embed(context.Background(), []string{"first", "second"})
		require.NoError(t, err)
		assert.Equal(t, []Vector{{0.1, 0.2}, {0.3, 0.4}}, vectors)
	})

	t.Run("maps rate limit errors", func(t *testing.T) {
		srv := newEmbeddingServer(t, func(w http.ResponseWriter, _ embeddingRequest) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
		})

		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
		require.NoError(t, err)

		_, err = p.Embed(context.Background(), []string{"x"})
		assert.ErrorIs(t, err, ErrRateLimitExceeded)
	})

	t.Run("rejects mismatched result count", func(t *testing.T) {
		srv := newEmbeddingServer(t, func(w http.ResponseWriter, _ embeddingRequest) {
			_, _ = w.Write([]byte(`{"object":"list","model":"m","data":[],"usage":{"prompt_tokens":0,"total_tokens":0}}`))
		})

		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
		require.NoError(t, err)

		_, err = p.Embed(context.Background(), []string{"x"})
		assert.ErrorIs(t, err, ErrVectorizationFailed)
	})
}
