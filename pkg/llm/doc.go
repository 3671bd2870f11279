// Package llm is a thin chat-completion client for OpenAI-compatible APIs.
//
// A Request carries an optional system instruction, an ordered conversation
// and generation parameters. Images attach to individual user messages and are
// sent as base64 data URIs:
//
//	client, err := llm.New(llm.Config{APIKey: key, Model: "gpt-4o-mini"})
//	resp, err := client.Complete(ctx, llm.Request{
//	    System: "You write HTML emails.",
//	    Messages: []llm.Message{
//	        llm.UserText("Welcome email for a coffee shop", llm.Image{ContentType: "image/png", Data: logo}),
//	    },
//	    MaxTokens:   4000,
//	    Temperature: 0.3,
//	})
//
// The client never retries. A failed call surfaces as one error matching
// ErrRequestFailed, so callers decide whether a fallback applies.
package llm
