/*
Package task runs background work whose completion is delivered to a single
update loop.

Work is started with Start and runs on its own goroutine with a cancellable
context. When the work returns, its completion callback is posted to a Loop,
which runs callbacks one at a time in the order they were posted. Cancelling a
Task guarantees its callback is never run, so a caller that has been torn down
never sees a stale result.
*/
package task

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Post once the Loop has been closed.
var ErrClosed = errors.New("task: loop closed")

// Loop serialises callbacks onto a single goroutine.
type Loop struct {
	queue chan func()
	once  sync.Once
	quit  chan struct{}
	done  chan struct{}
}

// NewLoop returns a Loop that can buffer up to size pending callbacks before
// Post blocks.
func NewLoop(size int) *Loop {
	return &Loop{
		queue: make(chan func(), size),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Post queues fn to be run by the loop. A callback posted concurrently with
// Close may be dropped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.quit:
		return ErrClosed
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.quit:
		return ErrClosed
	case <-l.done:
		return ErrClosed
	}
}

// Close stops the loop accepting further callbacks. Callbacks already queued
// are still run by Run. It is safe to call Close from a callback.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
}

// Run executes callbacks until the loop is closed and drained, or ctx is
// done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.quit:
			return l.drain()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) drain() error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return nil
		}
	}
}

// Task is a handle to running background work.
type Task struct {
	cancel context.CancelFunc

	mu        sync.Mutex
	cancelled bool

	finished chan struct{}
}

// Start runs work on a new goroutine. Once work returns, done is posted to
// loop with the error returned by work, unless the task was cancelled first.
// Either work or done may be nil.
func Start(ctx context.Context, loop *Loop, work func(context.Context) error, done func(error)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel:   cancel,
		finished: make(chan struct{}),
	}

	go func() {
		defer close(t.finished)
		defer cancel()

		var err error
		if work != nil {
			err = work(ctx)
		}
		if done == nil || loop == nil {
			return
		}
		_ = loop.Post(func() { t.deliver(done, err) })
	}()

	return t
}

// deliver runs on the loop goroutine.
func (t *Task) deliver(done func(error), err error) {
	t.mu.Lock()
	cancelled := t.cancelled
	t.mu.Unlock()
	if cancelled {
		return
	}
	done(err)
}

// Cancel cancels the context passed to the work function and suppresses the
// completion callback if it has not already started.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cancel()
}

// Cancelled reports whether Cancel has been called.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Wait blocks until the work function has returned.
func (t *Task) Wait() {
	<-t.finished
}

// Done returns a channel that is closed once the work function has returned.
func (t *Task) Done() <-chan struct{} {
	return t.finished
}
