package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/auth"
)

// fakeGoogle serves the token and user info endpoints.
func fakeGoogle(t *testing.T, refreshToken, email string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			resp := map[string]any{"access_token": "access-1", "token_type": "Bearer", "expires_in": 3600}
			if refreshToken != "" {
				resp["refresh_token"] = refreshToken
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "1//refresh" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-2", "token_type": "Bearer", "expires_in": 3600})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "123", "email": email, "verified_email": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T, srv *httptest.Server) *auth.GoogleProvider {
	t.Helper()
	p, err := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8000/auth/google/callback",
		AuthURL:      srv.URL + "/auth",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	}, auth.NewMemoryStateStore(), auth.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return p
}

func stateOf(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestNewGoogleProvider_NotConfigured(t *testing.T) {
	t.Parallel()
	_, err := auth.NewGoogleProvider(auth.GoogleConfig{}, nil)
	assert.ErrorIs(t, err, auth.ErrNotConfigured)
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	t.Parallel()
	p := newProvider(t, fakeGoogle(t, "", "me@example.com"))

	raw, err := p.AuthURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "openid email profile https://www.googleapis.com/auth/gmail.send", q.Get("scope"))
	assert.Equal(t, "http://localhost:8000/auth/google/callback", q.Get("redirect_uri"))
	assert.NotEmpty(t, q.Get("state"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns identity with refresh token", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, fakeGoogle(t, "1//refresh", "Me@Example.com"))
		authURL, err := p.AuthURL(ctx)
		require.NoError(t, err)

		id, err := p.Exchange(ctx, "good-code", stateOf(t, authURL))
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", id.Email)
		assert.True(t, id.VerifiedEmail)
		assert.Equal(t, "1//refresh", id.RefreshToken)
	})

	t.Run("state is single use", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, fakeGoogle(t, "", "me@example.com"))
		authURL, err := p.AuthURL(ctx)
		require.NoError(t, err)
		state := stateOf(t, authURL)

		id, err := p.Exchange(ctx, "good-code", state)
		require.NoError(t, err)
		assert.Empty(t, id.RefreshToken)

		_, err = p.Exchange(ctx, "good-code", state)
		assert.ErrorIs(t, err, auth.ErrInvalidState)
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, fakeGoogle(t, "", "me@example.com"))
		_, err := p.Exchange(ctx, "good-code", "forged")
		assert.ErrorIs(t, err, auth.ErrInvalidState)
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, fakeGoogle(t, "", "me@example.com"))
		authURL, err := p.AuthURL(ctx)
		require.NoError(t, err)
		_, err = p.Exchange(ctx, "bad-code", stateOf(t, authURL))
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, fakeGoogle(t, "", ""))
		authURL, err := p.AuthURL(ctx)
		require.NoError(t, err)
		_, err = p.Exchange(ctx, "good-code", stateOf(t, authURL))
		assert.ErrorIs(t, err, auth.ErrNoEmail)
	})
}

func TestGoogleProvider_AccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t, fakeGoogle(t, "", "me@example.com"))

	token, err := p.AccessToken(ctx, "1//refresh")
	require.NoError(t, err)
	assert.Equal(t, "access-2", token.AccessToken)
	assert.True(t, token.Valid())

	_, err = p.AccessToken(ctx, "revoked")
	assert.ErrorIs(t, err, auth.ErrTokenRefresh)

	_, err = p.AccessToken(ctx, "")
	assert.ErrorIs(t, err, auth.ErrEmptyRefresh)
}

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := auth.NewMemoryStateStore()

	require.NoError(t, store.Store(ctx, "s1", time.Minute))
	require.NoError(t, store.Consume(ctx, "s1"))
	assert.ErrorIs(t, store.Consume(ctx, "s1"), auth.ErrStateNotFound)

	require.NoError(t, store.Store(ctx, "s2", -time.Second))
	assert.ErrorIs(t, store.Consume(ctx, "s2"), auth.ErrStateNotFound)
}
