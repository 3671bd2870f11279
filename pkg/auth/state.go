package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/mailcraft/pkg/redis"
)

// StateStore keeps OAuth state values between the redirect and the callback.
type StateStore interface {
	// Store remembers state until ttl elapses.
	Store(ctx context.Context, state string, ttl time.Duration) error
	// Consume atomically checks that state exists and removes it.
	// Returns ErrStateNotFound if state doesn't exist or was already consumed.
	Consume(ctx context.Context, state string) error
}

// MemoryStateStore is a process-local StateStore.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryStateStore) Store(_ context.Context, state string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for s, exp := range m.states {
		if now.After(exp) {
			delete(m.states, s)
		}
	}
	m.states[state] = now.Add(ttl)
	return nil
}

func (m *MemoryStateStore) Consume(_ context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.states[state]
	delete(m.states, state)
	if !ok || m.now().After(exp) {
		return ErrStateNotFound
	}
	return nil
}

// RedisStateStore shares state between replicas. Consume uses GETDEL so a
// state value can be redeemed once.
type RedisStateStore struct {
	storage *redis.Storage
}

func NewRedisStateStore(storage *redis.Storage) *RedisStateStore {
	return &RedisStateStore{storage: storage}
}

func (r *RedisStateStore) Store(ctx context.Context, state string, ttl time.Duration) error {
	return r.storage.Set(ctx, "oauth_state:"+state, []byte{1}, ttl)
}

func (r *RedisStateStore) Consume(ctx context.Context, state string) error {
	_, err := r.storage.Take(ctx, "oauth_state:"+state)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return ErrStateNotFound
	}
	return err
}
