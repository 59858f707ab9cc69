// Package worker runs render tasks in isolation: each task gets its own
// goroutine, a deadline and a single-slot result channel. Errors and panics
// are logged in full and reported to the caller only as ErrFailed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

var (
	// ErrTimeout means the task did not deliver a result within its budget.
	ErrTimeout = errors.New("task timed out")
	// ErrFailed means the task returned an error or panicked.
	ErrFailed = errors.New("task failed")
)

// Pool bounds the number of tasks running at once.
type Pool struct {
	slots chan struct{}
	join  time.Duration
	log   *slog.Logger
}

// NewPool allows size concurrent tasks. After a task finishes or times out
// the caller waits at most join for its goroutine to exit.
func NewPool(size int, join time.Duration, log *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		slots: make(chan struct{}, size),
		join:  join,
		log:   log,
	}
}

type result[T any] struct {
	val T
	err error
}

// Run executes task with a deadline of timeout. Waiting for a free slot counts
// against the deadline. A task still running at the deadline is abandoned: its
// result is never delivered, and it keeps its slot until it returns.
func Run[T any](ctx context.Context, p *Pool, name string, timeout time.Duration, task func(context.Context) (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if ctx.Err() != nil {
		return zero, p.expired(ctx, name)
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, p.expired(ctx, name)
	}

	results := make(chan result[T], 1)
	done := make(chan struct{})
	start := time.Now()
	go func() {
		defer close(done)
		defer func() { <-p.slots }()
		defer func() {
			if r := recover(); r != nil {
				results <- result[T]{err: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
			}
		}()
		val, err := task(ctx)
		results <- result[T]{val: val, err: err}
	}()

	select {
	case r := <-results:
		p.wait(name, done)
		// A result that races the deadline is still late.
		if ctx.Err() != nil {
			return zero, p.expired(ctx, name)
		}
		if r.err != nil {
			p.log.Error("task failed", "task", name, "elapsed", time.Since(start), "err", r.err)
			return zero, ErrFailed
		}
		p.log.Debug("task finished", "task", name, "elapsed", time.Since(start))
		return r.val, nil
	case <-ctx.Done():
		p.wait(name, done)
		return zero, p.expired(ctx, name)
	}
}

func (p *Pool) expired(ctx context.Context, name string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		p.log.Warn("task timed out", "task", name)
		return ErrTimeout
	}
	return ctx.Err()
}

// wait joins the task goroutine for at most the join timeout.
func (p *Pool) wait(name string, done <-chan struct{}) {
	t := time.NewTimer(p.join)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		p.log.Warn("abandoning task still running after join timeout", "task", name, "join", p.join)
	}
}
