package mailer

import (
	"errors"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
)

var (
	ErrOAuthNotConfigured = errors.New("mailer: google oauth is not configured")
)

func oauthNotConfigured() error {
	return apperr.Wrap(ErrOAuthNotConfigured, apperr.KindConfiguration,
		"oauth_not_configured", "Google OAuth is not configured")
}

func invalidSession() error {
	return apperr.Unauthorized("invalid_session", "Invalid or expired session. Please log in again.")
}

func sessionNotFound() error {
	return apperr.NotFound("session_not_found", "Session not found")
}

func missingToken() error {
	return apperr.Validation("no_refresh_token",
		"No refresh token found for this session. Please reconnect with Google.")
}
