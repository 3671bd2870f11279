package auth

import "errors"

// OAuth-specific errors
var (
	ErrInvalidState   = errors.New("invalid OAuth state")
	ErrStateNotFound  = errors.New("OAuth state not found or expired")
	ErrInvalidCode    = errors.New("invalid OAuth code")
	ErrNoEmail        = errors.New("no email from provider")
	ErrUserInfo       = errors.New("failed to fetch provider user info")
	ErrTokenRefresh   = errors.New("failed to refresh access token")
	ErrNotConfigured  = errors.New("google oauth is not configured")
	ErrEmptyRefresh   = errors.New("refresh token is required")
	ErrStateGenerator = errors.New("failed to generate OAuth state")
)
