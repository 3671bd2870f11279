package generator

import "errors"

var (
	// ErrInvalidHistory means the conversation history is not a JSON array of
	// {role, content} turns.
	ErrInvalidHistory = errors.New("invalid conversation history")

	// ErrLLMNotAvailable means the generator was built without a completer.
	ErrLLMNotAvailable = errors.New("language model is not configured")
)
