package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

// TokenCipher seals refresh tokens at rest. *secrets.Cipher satisfies it.
type TokenCipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(encoded string) (string, error)
}

// Manager creates and resolves Gmail connection sessions.
type Manager struct {
	store  Store
	cipher TokenCipher
	ttl    time.Duration
	log    *slog.Logger
}

type ManagerOption func(*Manager)

// WithTTL sets the session lifetime. Zero means sessions never expire.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a session manager.
func NewManager(store Store, cipher TokenCipher, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		cipher: cipher,
		ttl:    720 * time.Hour,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("session"))
	return m
}

// Create opens a session for email. An empty refreshToken reuses the token of
// another live session for the same address when one exists, since Google
// only issues refresh tokens on consent.
func (m *Manager) Create(ctx context.Context, email, refreshToken string) (*Session, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidSession
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		session.ExpiresAt = now.Add(m.ttl)
	}

	switch {
	case refreshToken != "":
		if m.cipher == nil {
			return nil, ErrNoCipher
		}
		sealed, err := m.cipher.EncryptString(refreshToken)
		if err != nil {
			return nil, fmt.Errorf("encrypt refresh token: %w", err)
		}
		session.EncryptedToken = sealed
	default:
		sealed, err := m.store.FindTokenByEmail(ctx, email)
		switch {
		case err == nil:
			session.EncryptedToken = sealed
		case errors.Is(err, ErrSessionNotFound):
			m.log.WarnContext(ctx, "no refresh token available, sending will fail until reconnect",
				logger.SessionID(session.ID))
		default:
			return nil, fmt.Errorf("look up existing token: %w", err)
		}
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.log.InfoContext(ctx, "session created", logger.SessionID(session.ID))
	return session, nil
}

// Get returns a live session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, id)
}

// Delete removes a session and reports whether it existed.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	deleted, err := m.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		m.log.InfoContext(ctx, "session deleted", logger.SessionID(id))
	}
	return deleted, nil
}

// RefreshToken decrypts the session's refresh token.
func (m *Manager) RefreshToken(session *Session) (string, error) {
	if session == nil || !session.HasToken() {
		return "", ErrNoRefreshToken
	}
	if m.cipher == nil {
		return "", ErrNoCipher
	}
	token, err := m.cipher.DecryptString(session.EncryptedToken)
	if err != nil {
		return "", errors.Join(ErrTokenDecryption, err)
	}
	return token, nil
}
