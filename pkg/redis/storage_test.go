package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/redis"
)

func newStorage(t *testing.T) (*redis.Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStorage(client, "test:"), mr
}

func TestStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set get with prefix", func(t *testing.T) {
		t.Parallel()
		s, mr := newStorage(t)

		require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
		assert.True(t, mr.Exists("test:k"))
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		s, _ := newStorage(t)

		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, redis.ErrKeyNotFound)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		t.Parallel()
		s, mr := newStorage(t)

		require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
		mr.FastForward(2 * time.Minute)
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, redis.ErrKeyNotFound)
	})

	t.Run("take is one-time", func(t *testing.T) {
		t.Parallel()
		s, _ := newStorage(t)

		require.NoError(t, s.Set(ctx, "state", []byte("1"), time.Minute))
		got, err := s.Take(ctx, "state")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), got)

		_, err = s.Take(ctx, "state")
		assert.ErrorIs(t, err, redis.ErrKeyNotFound)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		t.Parallel()
		s, _ := newStorage(t)

		require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
		ok, err := s.Delete(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestConnect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrNotConfigured)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("connects and passes healthcheck", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://" + mr.Addr() + "/0", RetryAttempts: 1})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(ctx))

		mr.Close()
		assert.ErrorIs(t, redis.Healthcheck(client)(ctx), redis.ErrUnavailable)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(ctx, redis.Config{
			ConnectionURL:  "redis://" + addr + "/0",
			RetryAttempts:  2,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrNotReady)
	})
}
