package session

import "errors"

var (
	// ErrInvalidSession indicates a session without id or email
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrNoRefreshToken indicates the session holds no offline credential
	ErrNoRefreshToken = errors.New("session.no_refresh_token")

	// ErrTokenDecryption indicates the stored credential could not be decrypted
	ErrTokenDecryption = errors.New("session.token_decryption_failed")

	// ErrNoCipher indicates the manager was built without a token cipher
	ErrNoCipher = errors.New("session.no_cipher")
)
