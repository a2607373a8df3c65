// Package breaker implements a count-based circuit breaker over a sliding
// window of the most recent call outcomes.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State captures circuit breaker states.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrOpen is returned without calling fn while the circuit is open, or
	// when a half-open circuit already has its trial calls in flight.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrTimeout is recorded when fn does not return within CallTimeout.
	ErrTimeout = errors.New("circuit breaker call timed out")
)

// Config controls thresholds for state transitions.
type Config struct {
	Name             string
	WindowSize       int
	FailureRatio     float64
	CoolDown         time.Duration
	CallTimeout      time.Duration
	HalfOpenMaxCalls int
	// OnStateChange, when set, is called with the breaker lock released.
	OnStateChange func(name string, from, to State)
}

func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = 5
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = 0.5
	}
	if c.CoolDown <= 0 {
		c.CoolDown = 60 * time.Second
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = 1
	}
	return c
}

// Breaker guards one downstream operation.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	state    State
	window   []bool // true = failure
	next     int
	filled   int
	failures int
	openedAt time.Time
	trials   int
	// gen changes on every state transition; outcomes of calls admitted
	// under an older generation are discarded.
	gen uint64
}

func New(cfg Config) *Breaker {
	cfg = cfg.withDefaults()
	return &Breaker{
		cfg:    cfg,
		now:    time.Now,
		window: make([]bool, cfg.WindowSize),
	}
}

func (b *Breaker) Name() string { return b.cfg.Name }

// State reports the current state, moving an expired open circuit to half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	from, to := b.refreshLocked()
	st := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return st
}

// Execute runs fn if the circuit permits it and records the outcome.
// Context cancellation by the caller is not counted against the provider.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	gen, err := b.acquire()
	if err != nil {
		return err
	}

	err = b.call(ctx, fn)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrTimeout) {
		b.release(gen)
		return err
	}
	b.record(gen, err == nil)
	return err
}

func (b *Breaker) call(ctx context.Context, fn func(context.Context) error) error {
	if b.cfg.CallTimeout <= 0 {
		return fn(ctx)
	}

	c, cancel := context.WithTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- fn(c)
	}()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil && errors.Is(c.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return err
	case <-c.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTimeout
	}
}

func (b *Breaker) acquire() (uint64, error) {
	b.mu.Lock()
	from, to := b.refreshLocked()
	gen := b.gen
	var err error
	switch b.state {
	case StateOpen:
		err = ErrOpen
	case StateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxCalls {
			err = ErrOpen
		} else {
			b.trials++
		}
	}
	b.mu.Unlock()
	b.notify(from, to)
	return gen, err
}

// release gives back a half-open trial slot without recording an outcome.
func (b *Breaker) release(gen uint64) {
	b.mu.Lock()
	if gen == b.gen && b.state == StateHalfOpen && b.trials > 0 {
		b.trials--
	}
	b.mu.Unlock()
}

func (b *Breaker) record(gen uint64, success bool) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	from := b.state
	switch b.state {
	case StateHalfOpen:
		if success {
			b.resetLocked()
			b.state = StateClosed
			b.gen++
		} else {
			b.tripLocked()
		}
	case StateClosed:
		b.pushLocked(!success)
		if b.filled == len(b.window) && float64(b.failures)/float64(b.filled) >= b.cfg.FailureRatio {
			b.tripLocked()
		}
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *Breaker) pushLocked(failure bool) {
	if b.filled == len(b.window) {
		if b.window[b.next] {
			b.failures--
		}
	} else {
		b.filled++
	}
	b.window[b.next] = failure
	if failure {
		b.failures++
	}
	b.next = (b.next + 1) % len(b.window)
}

func (b *Breaker) tripLocked() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.trials = 0
	b.gen++
}

func (b *Breaker) resetLocked() {
	for i := range b.window {
		b.window[i] = false
	}
	b.next, b.filled, b.failures, b.trials = 0, 0, 0, 0
}

func (b *Breaker) refreshLocked() (State, State) {
	from := b.state
	if b.state == StateOpen && !b.now().Before(b.openedAt.Add(b.cfg.CoolDown)) {
		b.state = StateHalfOpen
		b.trials = 0
		b.gen++
	}
	return from, b.state
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// Counts is a snapshot of the sliding window.
type Counts struct {
	Calls    int `json:"calls"`
	Failures int `json:"failures"`
}

func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Counts{Calls: b.filled, Failures: b.failures}
}
