package binder_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/binder"
)

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"id": "42", "filename": "a.png"}
	extract := func(_ *http.Request, name string) string { return params[name] }

	var got struct {
		ID       int64  `path:"id"`
		Filename string `path:"filename"`
		Missing  string `path:"missing"`
	}
	req := httptest.NewRequest(http.MethodGet, "/get-template/42", nil)
	require.NoError(t, binder.Path(extract)(req, &got))
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "a.png", got.Filename)
	assert.Empty(t, got.Missing)

	var bad struct {
		ID int64 `path:"id"`
	}
	params["id"] = "abc"
	assert.ErrorIs(t, binder.Path(extract)(req, &bad), binder.ErrFailedToParsePath)
	assert.ErrorIs(t, binder.Path(nil)(req, &bad), binder.ErrFailedToParsePath)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	var got struct {
		Limit int      `query:"limit"`
		Tags  []string `query:"tags"`
	}
	req := httptest.NewRequest(http.MethodGet, "/list-templates?limit=25&tags=a,b&tags=c", nil)
	require.NoError(t, binder.Query()(req, &got))
	assert.Equal(t, 25, got.Limit)
	assert.Equal(t, []string{"a", "b", "c"}, got.Tags)

	req = httptest.NewRequest(http.MethodGet, "/list-templates?limit=lots", nil)
	assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)
}

type level int

func (l *level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

type Paging struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func TestQuery_Types(t *testing.T) {
	t.Parallel()

	var got struct {
		Paging
		Level   level         `query:"level"`
		Timeout time.Duration `query:"timeout"`
		RAG     *bool         `query:"rag"`
		Score   float64       `query:"score"`
		IDs     []int64       `query:"ids"`
		Skip    string        `query:"-"`
	}
	req := httptest.NewRequest(http.MethodGet,
		"/search-templates?limit=5&offset=10&level=high&timeout=2s&rag=on&score=0.5&ids=1,2&ids=3&-=x", nil)
	require.NoError(t, binder.Query()(req, &got))

	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, 10, got.Offset)
	assert.Equal(t, level(2), got.Level)
	assert.Equal(t, 2*time.Second, got.Timeout)
	require.NotNil(t, got.RAG)
	assert.True(t, *got.RAG)
	assert.InDelta(t, 0.5, got.Score, 1e-9)
	assert.Equal(t, []int64{1, 2, 3}, got.IDs)
	assert.Empty(t, got.Skip)

	req = httptest.NewRequest(http.MethodGet, "/search-templates?level=extreme", nil)
	assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)

	req = httptest.NewRequest(http.MethodGet, "/search-templates?rag=maybe", nil)
	assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)

	var notStruct int
	assert.ErrorIs(t, binder.Query()(req, &notStruct), binder.ErrFailedToParseQuery)
}
