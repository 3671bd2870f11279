package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

const ProviderGoogle = "google"

// Identity is the outcome of a successful callback.
// RefreshToken is empty when Google did not issue a new one.
type Identity struct {
	Email         string
	VerifiedEmail bool
	RefreshToken  string
}

// GoogleProvider runs the Google authorization code flow with offline access.
type GoogleProvider struct {
	config       GoogleConfig
	oauth2Config *oauth2.Config
	states       StateStore
	httpClient   *http.Client
	logger       *slog.Logger
}

type GoogleOption func(*GoogleProvider)

// WithGoogleLogger sets a custom logger for the provider
func WithGoogleLogger(logger *slog.Logger) GoogleOption {
	return func(p *GoogleProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHTTPClient sets the client used for token and user info requests.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewGoogleProvider creates a provider. Missing client credentials yield ErrNotConfigured.
func NewGoogleProvider(config GoogleConfig, states StateStore, opts ...GoogleOption) (*GoogleProvider, error) {
	if !config.Enabled() {
		return nil, ErrNotConfigured
	}
	if states == nil {
		states = NewMemoryStateStore()
	}
	if config.StateTTL <= 0 {
		config.StateTTL = 10 * time.Minute
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = DefaultUserInfoURL
	}
	if len(config.Scopes) == 0 {
		config.Scopes = DefaultScopes()
	}

	endpoint := google.Endpoint
	if config.AuthURL != "" {
		endpoint.AuthURL = config.AuthURL
	}
	if config.TokenURL != "" {
		endpoint.TokenURL = config.TokenURL
	}

	p := &GoogleProvider{
		config: config,
		oauth2Config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint:     endpoint,
		},
		states:     states,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// AuthURL generates the consent URL with CSRF protection via state parameter.
// Consent is always forced so Google issues a refresh token.
func (p *GoogleProvider) AuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", errors.Join(ErrStateGenerator, err)
	}

	if err := p.states.Store(ctx, state, p.config.StateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange handles the OAuth callback. State validation prevents CSRF attacks
// by ensuring the request originated from our auth flow.
func (p *GoogleProvider) Exchange(ctx context.Context, code, state string) (*Identity, error) {
	if state == "" {
		return nil, ErrInvalidState
	}
	// One-time use prevents replay attacks
	if err := p.states.Consume(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}
	if code == "" {
		return nil, ErrInvalidCode
	}

	ctx = p.withClient(ctx)
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		p.logger.WarnContext(ctx, "oauth code exchange failed",
			logger.Error(err), logger.Component("google_oauth"))
		return nil, errors.Join(ErrInvalidCode, err)
	}

	info, err := p.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrUserInfo, err)
	}

	email := sanitizer.NormalizeEmail(info.Email)
	if email == "" {
		return nil, ErrNoEmail
	}

	return &Identity{
		Email:         email,
		VerifiedEmail: info.VerifiedEmail,
		RefreshToken:  token.RefreshToken,
	}, nil
}

// AccessToken trades a refresh token for a fresh access token.
func (p *GoogleProvider) AccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrEmptyRefresh
	}
	ctx = p.withClient(ctx)
	token, err := p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Join(ErrTokenRefresh, err)
	}
	if token.AccessToken == "" {
		return nil, ErrTokenRefresh
	}
	return token, nil
}

func (p *GoogleProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var user googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
