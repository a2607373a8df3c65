package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one rate.Limiter per identity in process memory and
// evicts buckets that have been idle for longer than IdleTTL.
type MemoryLimiter struct {
	cfg   Config
	limit rate.Limit
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	cfg = cfg.withDefaults()
	return &MemoryLimiter{
		cfg:     cfg,
		limit:   rate.Every(cfg.interval()),
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (m *MemoryLimiter) Admit(_ context.Context, identity string) (Decision, error) {
	now := m.now()
	lim := m.get(identity, now)

	if lim.AllowN(now, 1) {
		return Decision{Allowed: true, Remaining: floorTokens(lim.TokensAt(now))}, nil
	}

	tokens := lim.TokensAt(now)
	wait := time.Duration((1 - tokens) / float64(m.limit) * float64(time.Second))
	return Decision{Remaining: floorTokens(tokens), RetryAfter: wait}, nil
}

func (m *MemoryLimiter) get(identity string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ent, ok := m.entries[identity]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(m.limit, m.cfg.Capacity)
	m.entries[identity] = &memoryEntry{lim: lim, lastSeen: now}
	return lim
}

// Len reports how many buckets are currently held.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cleanup drops buckets idle for longer than IdleTTL. A dropped bucket has
// necessarily refilled, so recreating it later at full capacity is exact.
func (m *MemoryLimiter) Cleanup() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, ent := range m.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (m *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = m.cfg.IdleTTL / 4
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

func floorTokens(f float64) int64 {
	if f < 0 {
		return 0
	}
	return int64(math.Floor(f + 1e-9))
}
