// Package keylock serializes work on the same key, either inside one
// process or across processes through Redis.
package keylock

import (
	"context"
	"sync"
)

// Local is an in-process keyed mutex. Entries are dropped when their last
// holder or waiter leaves.
type Local struct {
	mu    sync.Mutex
	locks map[string]*localEntry
}

type localEntry struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*localEntry)}
}

// Lock blocks until key is free or ctx is done.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ent, ok := l.locks[key]
	if !ok {
		ent = &localEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = ent
	}
	ent.refs++
	l.mu.Unlock()

	select {
	case ent.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, ent)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-ent.ch
			l.unref(key, ent)
		})
	}, nil
}

func (l *Local) unref(key string, ent *localEntry) {
	l.mu.Lock()
	ent.refs--
	if ent.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
