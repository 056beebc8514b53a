package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)}
}

type quote struct {
	USD float64 `json:"usd"`
	KRW float64 `json:"krw"`
}

func TestMemoryRoundTripsStructs(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()
	ctx := context.Background()

	in := map[string]quote{"bitcoin": {USD: 97000, KRW: 140000000}}
	require.NoError(t, mc.Set(ctx, Key("feed", "crypto"), in, time.Minute))

	var out map[string]quote
	require.NoError(t, mc.Get(ctx, "feed:crypto", &out))
	assert.Equal(t, in, out)

	got, err := GetTyped[map[string]quote](ctx, mc, "feed:crypto")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestMemoryExpiry(t *testing.T) {
	clk := newClock()
	mc := NewMemoryCache(WithMemoryCleanup(0), WithMemoryClock(clk.Now))
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", 60*time.Second))
	clk.Advance(59 * time.Second)

	var s string
	require.NoError(t, mc.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)
	ttl, ok := mc.TTL("k")
	assert.True(t, ok)
	assert.Equal(t, time.Second, ttl)

	clk.Advance(time.Second)
	assert.True(t, errors.Is(mc.Get(ctx, "k", &s), ErrCacheMiss))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	clk := newClock()
	mc := NewMemoryCache(WithMemoryCleanup(0), WithMemoryClock(clk.Now), WithMemoryMaxSize(2))
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Hour))
	clk.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Hour))
	clk.Advance(time.Second)

	var n int
	require.NoError(t, mc.Get(ctx, "a", &n))
	clk.Advance(time.Second)

	require.NoError(t, mc.Set(ctx, "c", 3, time.Hour))
	assert.Equal(t, 2, mc.Len())
	assert.True(t, errors.Is(mc.Get(ctx, "b", &n), ErrCacheMiss))
	require.NoError(t, mc.Get(ctx, "a", &n))
	assert.Equal(t, 1, n)
}

func TestMemoryTryLock(t *testing.T) {
	clk := newClock()
	mc := NewMemoryCache(WithMemoryCleanup(0), WithMemoryClock(clk.Now))
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock:warm", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "lock:warm", 30*time.Second)
	assert.False(t, ok)

	clk.Advance(30 * time.Second)
	ok, _ = mc.TryLock(ctx, "lock:warm", 30*time.Second)
	assert.True(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock:warm"))
	ok, _ = mc.TryLock(ctx, "lock:warm", 30*time.Second)
	assert.True(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(0), WithMemoryMaxSize(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := Key("k", string(rune('a'+(i+j)%26)))
				_ = mc.Set(ctx, key, j, time.Minute)
				var n int
				_ = mc.Get(ctx, key, &n)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, mc.Len(), 16)
}

func TestLayeredReadsThroughToShared(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryCache(WithMemoryCleanup(0))
	lc := NewLayeredCache(shared, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	require.NoError(t, shared.Set(ctx, "feed:news", []string{"a", "b"}, time.Minute))

	var got []string
	require.NoError(t, lc.Get(ctx, "feed:news", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	// Served from L1 once the shared copy is gone.
	require.NoError(t, shared.Delete(ctx, "feed:news"))
	got = nil
	require.NoError(t, lc.Get(ctx, "feed:news", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, lc.Delete(ctx, "feed:news"))
	assert.True(t, errors.Is(lc.Get(ctx, "feed:news", &got), ErrCacheMiss))
}

func TestLayeredWritesThrough(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryCache(WithMemoryCleanup(0))
	lc := NewLayeredCache(shared)

	require.NoError(t, lc.Set(ctx, "feed:index", quote{USD: 1}, time.Minute))
	var q quote
	require.NoError(t, shared.Get(ctx, "feed:index", &q))
	assert.Equal(t, 1.0, q.USD)

	ok, err := lc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = shared.TryLock(ctx, "lock", time.Second)
	assert.False(t, ok)
}

type pingingCache struct {
	*MemoryCache
	err error
}

func (p pingingCache) Ping(context.Context) error { return p.err }

func TestLayeredPingDelegates(t *testing.T) {
	mem := NewMemoryCache(WithMemoryCleanup(0))
	assert.NoError(t, NewLayeredCache(mem).Ping(context.Background()))

	down := pingingCache{MemoryCache: NewMemoryCache(WithMemoryCleanup(0)), err: errors.New("refused")}
	assert.EqualError(t, NewLayeredCache(down).Ping(context.Background()), "refused")
}
