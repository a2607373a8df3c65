package mailer

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	tasksStarted = expvar.NewInt("notify_tasks_started")
	tasksFailed  = expvar.NewInt("notify_tasks_failed")
)

// Dispatcher runs fire-and-forget tasks on their own goroutines and keeps
// track of them so shutdown can wait.
type Dispatcher struct {
	Timeout time.Duration
	Logger  *logrus.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func NewDispatcher(timeout time.Duration, logger *logrus.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{Timeout: timeout, Logger: logger}
}

// Submit schedules fn and returns immediately. Errors and panics in fn are
// logged and never reach the caller. Submissions after Shutdown are dropped.
func (d *Dispatcher) Submit(name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.Logger.WithField("task", name).Warn("dispatcher closed, task dropped")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	tasksStarted.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.run(fn); err != nil {
			tasksFailed.Add(1)
			d.Logger.WithError(err).WithField("task", name).Error("background task failed")
		}
	}()
}

func (d *Dispatcher) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()
	return fn(ctx)
}

// Shutdown stops accepting tasks and waits for in-flight ones until ctx ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
