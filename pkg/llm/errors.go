package llm

import "errors"

var (
	ErrAPIKeyRequired = errors.New("llm: API key is required")
	ErrRequestFailed  = errors.New("llm: completion request failed")
	ErrEmptyResponse  = errors.New("llm: completion returned no choices")
	ErrNoMessages     = errors.New("llm: request has no messages")
)
