package store

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is the result of any operation submitted after Close.
var ErrQueueClosed = errors.New("store queue closed")

// Future is the pending result of an operation submitted to a Queue.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Await blocks until the operation finishes or ctx is done. Giving up on
// ctx does not cancel the operation; it still runs to completion.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Queue runs store operations one at a time on a single worker goroutine,
// in the order they were submitted.
type Queue struct {
	mu     sync.Mutex
	closed bool
	jobs   chan func()
	done   chan struct{}
}

// NewQueue starts a worker with room for size pending operations.
func NewQueue(size int) *Queue {
	q := &Queue{
		jobs: make(chan func(), size),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for job := range q.jobs {
		job()
	}
}

// Close stops accepting work, waits for pending operations to finish and
// stops the worker. It is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}

// Submit enqueues fn and returns its Future. fn runs with a background
// context so that an abandoned Await never interrupts a write.
func Submit[T any](q *Queue, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		var zero T
		f.resolve(zero, ErrQueueClosed)
		return f
	}
	q.jobs <- func() {
		f.resolve(fn(context.Background()))
	}
	return f
}

// Exec enqueues an operation that produces no value.
func Exec(q *Queue, fn func(ctx context.Context) error) *Future[struct{}] {
	return Submit(q, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// Run submits fn and awaits its result.
func Run[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	return Submit(q, fn).Await(ctx)
}
