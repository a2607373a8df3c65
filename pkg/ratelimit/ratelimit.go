// Package ratelimit provides per-identity token buckets behind a single
// Limiter interface, with in-memory and Redis backends.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed bool
	// Remaining is the whole number of tokens left after this attempt.
	Remaining int64
	// RetryAfter is how long until one token is available. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter admits or rejects one request for identity. An admitted request
// consumes exactly one token; a rejected one leaves the bucket unchanged.
type Limiter interface {
	Admit(ctx context.Context, identity string) (Decision, error)
}

// Config describes a greedy token bucket: Capacity tokens, refilled
// continuously at RefillTokens per RefillPeriod.
type Config struct {
	Capacity     int
	RefillTokens int
	RefillPeriod time.Duration
	// IdleTTL bounds how long an untouched bucket is retained.
	IdleTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.Capacity <= 0 {
		c.Capacity = 10
	}
	if c.RefillTokens <= 0 {
		c.RefillTokens = 10
	}
	if c.RefillPeriod <= 0 {
		c.RefillPeriod = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	return c
}

// interval is the time it takes for a single token to come back.
func (c Config) interval() time.Duration {
	return c.RefillPeriod / time.Duration(c.RefillTokens)
}
