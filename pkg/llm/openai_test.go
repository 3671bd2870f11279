package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/llm"
)

const completionBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini-2024",
"choices":[{"index":0,"message":{"role":"assistant","content":"<html></html>"},"finish_reason":"stop","logprobs":null}],
"usage":{"prompt_tokens":11,"completion_tokens":7,"total_tokens":18}}`

func newChatServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := llm.New(llm.Config{})
	assert.ErrorIs(t, err, llm.ErrAPIKeyRequired)

	c, err := llm.New(llm.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultModel, c.Model())
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends system history and images", func(t *testing.T) {
		t.Parallel()

		var body map[string]any
		srv := newChatServer(t, http.StatusOK, completionBody, &body)

		c, err := llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL + "/v1/", Model: "gpt-4o-mini"})
		require.NoError(t, err)

		resp, err := c.Complete(context.Background(), llm.Request{
			System: "sys",
			Messages: []llm.Message{
				llm.UserText("earlier"),
				llm.AssistantText("reply"),
				llm.UserText("now", llm.Image{Data: []byte("png")}),
			},
			MaxTokens:   4000,
			Temperature: 0.3,
		})
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", resp.Content)
		assert.Equal(t, "stop", resp.FinishReason)
		assert.Equal(t, "gpt-4o-mini-2024", resp.Model)
		assert.Equal(t, llm.Usage{InputTokens: 11, OutputTokens: 7}, resp.Usage)

		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.EqualValues(t, 4000, body["max_tokens"])
		assert.InDelta(t, 0.3, body["temperature"], 1e-9)
		assert.NotContains(t, body, "response_format")

		msgs := body["messages"].([]any)
		require.Len(t, msgs, 4)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "sys", msgs[0].(map[string]any)["content"])
		assert.Equal(t, "earlier", msgs[1].(map[string]any)["content"])
		assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])

		parts := msgs[3].(map[string]any)["content"].([]any)
		require.Len(t, parts, 2)
		assert.Equal(t, "text", parts[0].(map[string]any)["type"])
		assert.Equal(t, "now", parts[0].(map[string]any)["text"])
		image := parts[1].(map[string]any)
		assert.Equal(t, "image_url", image["type"])
		assert.Equal(t, "data:image/png;base64,cG5n", image["image_url"].(map[string]any)["url"])
	})

	t.Run("json mode", func(t *testing.T) {
		t.Parallel()

		var body map[string]any
		srv := newChatServer(t, http.StatusOK, completionBody, &body)
		c, _ := llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL + "/v1/"})

		_, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserText("x")}, JSON: true})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		srv := newChatServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil)
		c, _ := llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL + "/v1/"})

		_, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserText("x")}})
		assert.ErrorIs(t, err, llm.ErrRequestFailed)
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()

		srv := newChatServer(t, http.StatusOK, `{"id":"1","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil)
		c, _ := llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL + "/v1/"})

		_, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserText("x")}})
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})

	t.Run("empty request", func(t *testing.T) {
		t.Parallel()

		c, _ := llm.New(llm.Config{APIKey: "k"})
		_, err := c.Complete(context.Background(), llm.Request{})
		assert.ErrorIs(t, err, llm.ErrNoMessages)
	})
}

func TestImage_DataURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data:image/jpeg;base64,AQI=", llm.Image{ContentType: "image/jpeg", Data: []byte{1, 2}}.DataURI())
	assert.Equal(t, "data:image/png;base64,", llm.Image{}.DataURI())
}

func TestRole_IsConversational(t *testing.T) {
	t.Parallel()

	assert.True(t, llm.RoleUser.IsConversational())
	assert.True(t, llm.RoleAssistant.IsConversational())
	assert.False(t, llm.RoleSystem.IsConversational())
	assert.False(t, llm.Role("tool").IsConversational())
}
