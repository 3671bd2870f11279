package session

import "context"

// Store persists sessions. MemoryStore and RedisStore implement it.
type Store interface {
	// Create stores s, replacing any session with the same id.
	Create(ctx context.Context, s *Session) error

	// Get returns a copy of the session. Expired sessions yield ErrSessionExpired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete reports whether the session existed.
	Delete(ctx context.Context, id string) (bool, error)

	// FindTokenByEmail returns the sealed refresh token of a live session for
	// email, or ErrSessionNotFound.
	FindTokenByEmail(ctx context.Context, email string) (string, error)
}
