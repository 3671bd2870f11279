package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create get delete", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		s := &session.Session{ID: "id-1", Email: "a@b.c", EncryptedToken: "sealed"}
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, "a@b.c", got.Email)

		got.Email = "mutated"
		again, err := store.Get(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, "a@b.c", again.Email)

		deleted, err := store.Delete(ctx, "id-1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.Delete(ctx, "id-1")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = store.Get(ctx, "id-1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("rejects invalid sessions", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		assert.ErrorIs(t, store.Create(ctx, nil), session.ErrInvalidSession)
		assert.ErrorIs(t, store.Create(ctx, &session.Session{ID: "x"}), session.ErrInvalidSession)
	})

	t.Run("expired sessions", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, &session.Session{
			ID: "old", Email: "a@b.c", EncryptedToken: "sealed", ExpiresAt: time.Now().Add(-time.Minute),
		}))

		_, err := store.FindTokenByEmail(ctx, "a@b.c")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		_, err = store.Get(ctx, "old")
		assert.ErrorIs(t, err, session.ErrSessionExpired)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("find token by email skips tokenless sessions", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, &session.Session{ID: "1", Email: "a@b.c"}))
		_, err := store.FindTokenByEmail(ctx, "a@b.c")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		require.NoError(t, store.Create(ctx, &session.Session{ID: "2", Email: "a@b.c", EncryptedToken: "sealed"}))
		token, err := store.FindTokenByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, "sealed", token)
	})

	t.Run("cleanup loop removes expired", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(10 * time.Millisecond)
		defer store.Close()
		require.NoError(t, store.Create(ctx, &session.Session{
			ID: "old", Email: "a@b.c", ExpiresAt: time.Now().Add(5 * time.Millisecond),
		}))
		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
	})
	t.Run("newest token wins", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		now := time.Now()
		require.NoError(t, store.Create(ctx, &session.Session{ID: "1", Email: "a@b.c", EncryptedToken: "older", CreatedAt: now.Add(-time.Hour)}))
		require.NoError(t, store.Create(ctx, &session.Session{ID: "2", Email: "a@b.c", EncryptedToken: "newer", CreatedAt: now}))
		require.NoError(t, store.Create(ctx, &session.Session{ID: "3", Email: "x@y.z", EncryptedToken: "other", CreatedAt: now.Add(time.Hour)}))

		token, err := store.FindTokenByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, "newer", token)

		_, err = store.Delete(ctx, "2")
		require.NoError(t, err)
		token, err = store.FindTokenByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, "older", token)
	})

	t.Run("recreate moves email index", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, &session.Session{ID: "1", Email: "a@b.c", EncryptedToken: "sealed"}))
		require.NoError(t, store.Create(ctx, &session.Session{ID: "1", Email: "d@e.f", EncryptedToken: "sealed"}))

		_, err := store.FindTokenByEmail(ctx, "a@b.c")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("delete expired and close twice", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(time.Hour)
		require.NoError(t, store.Create(ctx, &session.Session{ID: "old", Email: "a@b.c", ExpiresAt: time.Now().Add(-time.Second)}))
		require.NoError(t, store.Create(ctx, &session.Session{ID: "live", Email: "a@b.c"}))
		assert.Equal(t, 1, store.DeleteExpired())
		assert.Equal(t, 1, store.Len())

		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
