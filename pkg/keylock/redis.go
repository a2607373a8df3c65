package keylock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end
`)

// Redis is a SET NX based lock shared by every instance using the same Redis.
// The TTL bounds how long a crashed holder can block others.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *logrus.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, ttl: ttl, retry: 25 * time.Millisecond, logger: logger}
}

// Lock polls SET NX until it wins or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := "lock:" + key
	token := uuid.NewString()

	t := time.NewTicker(r.retry)
	defer t.Stop()
	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", k, err)
		}
		if ok {
			return r.releaser(k, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *Redis) releaser(key, token string) func() {
	return func() {
		// release must not depend on the request context, which may be gone
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := releaseScript.Run(ctx, r.client, []string{key}, token).Result()
		if err != nil && !errors.Is(err, redis.Nil) && r.logger != nil {
			r.logger.WithError(err).WithField("key", key).Warn("release lock failed")
		}
	}
}
