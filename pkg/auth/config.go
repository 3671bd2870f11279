package auth

import "time"

// Default scopes request identity plus permission to send mail as the user.
const (
	ScopeOpenID    = "openid"
	ScopeEmail     = "email"
	ScopeProfile   = "profile"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"

	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// DefaultScopes returns the scopes requested when none are configured.
func DefaultScopes() []string {
	return []string{ScopeOpenID, ScopeEmail, ScopeProfile, ScopeGmailSend}
}

// GoogleConfig holds the configuration for Google OAuth
type GoogleConfig struct {
	ClientID     string        `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string        `env:"GOOGLE_REDIRECT_URL"`
	Scopes       []string      `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email,profile,https://www.googleapis.com/auth/gmail.send"`
	StateTTL     time.Duration `env:"GOOGLE_OAUTH_STATE_TTL" envDefault:"10m"`
	UserInfoURL  string        `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`

	// AuthURL and TokenURL override Google's endpoints, mainly for tests.
	AuthURL  string `env:"GOOGLE_AUTH_URL"`
	TokenURL string `env:"GOOGLE_TOKEN_URL"`
}

// Enabled reports whether client credentials are present.
func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
