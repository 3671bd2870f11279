// Package vectorizer converts text into embedding vectors for semantic search.
//
// A Provider generates embeddings; Vectorizer wraps one with input validation
// and consistent error wrapping. OpenAIProvider talks to any OpenAI-compatible
// embeddings endpoint through the official SDK.
//
//	provider, err := vectorizer.NewOpenAIProvider(vectorizer.OpenAIConfig{
//	    APIKey:     os.Getenv("OPENAI_API_KEY"),
//	    Dimensions: 1536,
//	})
//	if err != nil {
//	    return err
//	}
//	v, _ := vectorizer.New(provider)
//	vec, err := v.ToVector(ctx, "Welcome email for new subscribers")
//
// text-embedding-3 models accept a Dimensions value lower than their native
// size; the provider rejects anything the model cannot produce at construction
// time, so storage schemas with a fixed vector width fail fast.
//
// # Error Handling
//
// Provider failures are joined with ErrVectorizationFailed. Rate limits and
// oversized input additionally match ErrRateLimitExceeded and
// ErrContextLengthExceeded:
//
//	if errors.Is(err, vectorizer.ErrRateLimitExceeded) {
//	    // back off
//	}
package vectorizer
