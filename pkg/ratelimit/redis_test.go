package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, cfg Config) (*RedisLimiter, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clk := newFakeClock()
	l := NewRedisLimiter(rdb, "", cfg)
	l.now = clk.Now
	return l, mr, clk
}

func TestRedisTenThenReject(t *testing.T) {
	l, _, _ := newRedis(t, Config{})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		d, err := l.Admit(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, int64(9-i), d.Remaining)
	}
	d, err := l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 6*time.Second, d.RetryAfter)
}

func TestRedisRefillAfterSixSeconds(t *testing.T) {
	l, _, clk := newRedis(t, Config{})
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, _ = l.Admit(ctx, "a")
	}

	clk.Advance(3 * time.Second)
	d, _ := l.Admit(ctx, "a")
	assert.False(t, d.Allowed)
	assert.Equal(t, 3*time.Second, d.RetryAfter)

	clk.Advance(3 * time.Second)
	d, _ = l.Admit(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Admit(ctx, "a")
	assert.False(t, d.Allowed)
}

func TestRedisIdentitiesAreIndependent(t *testing.T) {
	l, mr, _ := newRedis(t, Config{})
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		_, _ = l.Admit(ctx, "a")
	}
	d, _ := l.Admit(ctx, "b")
	assert.True(t, d.Allowed)
	assert.True(t, mr.Exists("rl:ip:a"))
	assert.True(t, mr.Exists("rl:ip:b"))
}

func TestRedisKeyExpires(t *testing.T) {
	l, mr, _ := newRedis(t, Config{IdleTTL: 15 * time.Minute})
	ctx := context.Background()
	_, _ = l.Admit(ctx, "a")

	assert.Equal(t, 15*time.Minute, mr.TTL("rl:ip:a"))
	mr.FastForward(16 * time.Minute)
	assert.False(t, mr.Exists("rl:ip:a"))
}

func TestRedisTTLCoversFullRefill(t *testing.T) {
	l, mr, _ := newRedis(t, Config{IdleTTL: time.Second})
	_, _ = l.Admit(context.Background(), "a")
	assert.Equal(t, time.Minute, mr.TTL("rl:ip:a"))
}

func TestRedisConcurrentNeverOverAdmits(t *testing.T) {
	l, _, _ := newRedis(t, Config{})
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, err := l.Admit(context.Background(), "same"); err == nil && d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(10), admitted.Load())
}

func TestRedisErrorSurfaces(t *testing.T) {
	l, mr, _ := newRedis(t, Config{})
	mr.Close()
	_, err := l.Admit(context.Background(), "a")
	assert.Error(t, err)
}
