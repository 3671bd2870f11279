package vectorizer

import "errors"

// Provider failures are joined with ErrVectorizationFailed, so callers match
// the sentinel while logs keep the upstream detail.
var (
	ErrProviderNotSet        = errors.New("vectorizer: provider is nil")
	ErrEmptyText             = errors.New("vectorizer: empty text")
	ErrVectorizationFailed   = errors.New("vectorizer: embedding request failed")
	ErrInvalidDimensions     = errors.New("vectorizer: unexpected vector width")
	ErrAPIKeyRequired        = errors.New("vectorizer: API key is required")
	ErrInvalidModel          = errors.New("vectorizer: unknown embedding model")
	ErrRateLimitExceeded     = errors.New("vectorizer: rate limited by provider")
	ErrContextLengthExceeded = errors.New("vectorizer: text exceeds model context")
)
