package session

import "time"

// Session is a Gmail connection. EncryptedToken holds the sealed Google
// refresh token and may be empty when Google issued none.
type Session struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EncryptedToken string    `json:"token,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry. A zero ExpiresAt never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// HasToken reports whether a refresh token is stored.
func (s *Session) HasToken() bool {
	return s.EncryptedToken != ""
}
