package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/binder"
)

type searchBody struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	UseHybrid *bool  `json:"use_hybrid"`
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var got searchBody
		require.NoError(t, binder.JSON()(jsonRequest(`{"query":"welcome","limit":3,"use_hybrid":false,"extra":1}`), &got))
		assert.Equal(t, "welcome", got.Query)
		assert.Equal(t, 3, got.Limit)
		require.NotNil(t, got.UseHybrid)
		assert.False(t, *got.UseHybrid)
	})

	t.Run("form body is not applicable", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("query=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.ErrorIs(t, binder.JSON()(req, &searchBody{}), binder.ErrNotApplicable)
	})

	t.Run("type mismatch names the field", func(t *testing.T) {
		t.Parallel()
		err := binder.JSON()(jsonRequest(`{"limit":"five"}`), &searchBody{})
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{"query":`), &searchBody{}), binder.ErrFailedToParseJSON)
		assert.ErrorIs(t, binder.JSON()(jsonRequest(``), &searchBody{}), binder.ErrFailedToParseJSON)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		big := `{"query":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		assert.ErrorIs(t, binder.JSON()(jsonRequest(big), &searchBody{}), binder.ErrFailedToParseJSON)
	})
}
