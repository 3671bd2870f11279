package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mailcraft/pkg/redis"
)

// RedisStore keeps sessions as JSON values with a TTL matching their expiry.
// A secondary key per email holds the latest encrypted token so reconnects
// without a fresh refresh token can reuse it.
type RedisStore struct {
	storage *redis.Storage
}

// NewRedisStore creates a store on top of a prefixed redis.Storage.
func NewRedisStore(storage *redis.Storage) *RedisStore {
	return &RedisStore{storage: storage}
}

func sessionKey(id string) string   { return "id:" + id }
func emailKey(email string) string { return "email:" + email }

func ttlOf(s *Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return time.Until(s.ExpiresAt)
}

func (r *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" || session.Email == "" {
		return ErrInvalidSession
	}
	ttl := ttlOf(session)
	if ttl < 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.storage.Set(ctx, sessionKey(session.ID), data, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if session.HasToken() {
		if err := r.storage.Set(ctx, emailKey(session.Email), []byte(session.EncryptedToken), ttl); err != nil {
			return fmt.Errorf("store session token index: %w", err)
		}
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.storage.Get(ctx, sessionKey(id))
	if errors.Is(err, redis.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.IsExpired() {
		_, _ = r.storage.Delete(ctx, sessionKey(id))
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Delete removes the session. The email token index is left in place; it
// expires on its own and only ever serves reconnects of the same account.
func (r *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.storage.Delete(ctx, sessionKey(id))
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return deleted, nil
}

func (r *RedisStore) FindTokenByEmail(ctx context.Context, email string) (string, error) {
	data, err := r.storage.Get(ctx, emailKey(email))
	if errors.Is(err, redis.ErrKeyNotFound) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session token index: %w", err)
	}
	return string(data), nil
}
