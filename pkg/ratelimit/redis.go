package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and takes one token atomically. State lives in a
// hash {tokens, ts}; it is only written when a token is taken.
// Returns {allowed, floor(tokens), retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local interval = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end
if now > ts then
  tokens = math.min(capacity, tokens + (now - ts) / interval)
  ts = now
end

if tokens >= 1 then
  tokens = tokens - 1
  redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", tostring(ts))
  redis.call("PEXPIRE", KEYS[1], ttl)
  return {1, math.floor(tokens), 0}
end
return {0, math.floor(tokens), math.ceil((1 - tokens) * interval)}
`)

// RedisLimiter shares buckets between instances through Redis.
type RedisLimiter struct {
	cfg    Config
	rdb    redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(rdb redis.Scripter, prefix string, cfg Config) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:ip:"
	}
	return &RedisLimiter{cfg: cfg.withDefaults(), rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisLimiter) Admit(ctx context.Context, identity string) (Decision, error) {
	// the key must outlive a full refill, or expiry would hand out free tokens
	ttl := r.cfg.IdleTTL
	if full := r.cfg.interval() * time.Duration(r.cfg.Capacity); full > ttl {
		ttl = full
	}

	res, err := tokenBucketScript.Run(ctx, r.rdb, []string{r.prefix + identity},
		r.cfg.Capacity,
		r.cfg.interval().Milliseconds(),
		r.now().UnixMilli(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	return Decision{
		Allowed:    res[0] == 1,
		Remaining:  res[1],
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
