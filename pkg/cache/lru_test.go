package cache_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/cache"
)

func TestNewLRU_PanicsOnInvalidCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRU[string, int](0) })
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2)
	assert.False(t, c.Put("a", 1))
	assert.False(t, c.Put("b", 2))

	// Touch a so b becomes the eviction candidate.
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, c.Put("c", 3))
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestLRU_UpdateDoesNotEvict(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](1)
	c.Put("a", 1)
	assert.False(t, c.Put("a", 2))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRU_Remove(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, string](4)
	c.Put(1, "one")
	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	assert.Zero(t, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](16)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := strconv.Itoa(i % 20)
			c.Put(key, i)
			c.Get(key)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
