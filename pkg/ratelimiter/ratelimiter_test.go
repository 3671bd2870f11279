package ratelimiter_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testConfig = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]ratelimiter.Config{
		"zero capacity": {Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		"zero rate":     {Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		"zero interval": {Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig, name)
	}
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()
	assert.True(t, testConfig.Enabled())
	assert.False(t, ratelimiter.Config{}.Enabled())
}

// exerciseStore runs the shared bucket behavior against a store driven by clock.
func exerciseStore(t *testing.T, store ratelimiter.Store, clock *fakeClock) {
	t.Helper()
	ctx := t.Context()

	limiter, err := ratelimiter.NewBucket(store, testConfig)
	require.NoError(t, err)

	for want := 2; want >= 0; want-- {
		res, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, want, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed(), "empty bucket denies")

	// Denied requests take nothing, so one refill admits exactly one request.
	clock.Advance(time.Second)
	res, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	res, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	other, err := limiter.Allow(ctx, "other")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "buckets are per key")

	// A long pause refills to capacity, never above.
	clock.Advance(time.Hour)
	res, err = limiter.AllowN(ctx, "client", 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	require.NoError(t, limiter.Reset(ctx, "client"))
	res, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)

	_, err = limiter.AllowN(ctx, "client", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	clock := newClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store, clock)
}

func TestMemoryStore_ResetAt(t *testing.T) {
	t.Parallel()

	clock := newClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	_, resetAt, err := store.Take(t.Context(), "k", 1, testConfig)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Second), resetAt)

	clock.Advance(1500 * time.Millisecond)
	_, resetAt, err = store.Take(t.Context(), "k", 1, testConfig)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(500*time.Millisecond), resetAt, "partial intervals carry over")
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(time.Millisecond))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	allowed := &ratelimiter.Result{Remaining: 0, ResetAt: time.Now().Add(time.Minute)}
	assert.Zero(t, allowed.RetryAfter())

	denied := &ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(time.Minute)}
	assert.InDelta(t, time.Minute.Seconds(), denied.RetryAfter().Seconds(), 1)

	late := &ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(-time.Minute)}
	assert.Zero(t, late.RetryAfter())
}
