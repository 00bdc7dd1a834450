package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[T any] struct {
	result T
	err    error
	done   chan struct{}
}

// Await waits for completion and returns the result and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever is first.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout if the future
// is still pending.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has settled, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Promise settles a Future exactly once.
type Promise[T any] struct {
	future *Future[T]
	once   sync.Once
}

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{future: &Future[T]{done: make(chan struct{})}}
}

// Resolve settles the future. Only the first call has an effect; it reports
// whether this call was the one that settled it.
func (p *Promise[T]) Resolve(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.future.result = v
		p.future.err = err
		close(p.future.done)
		settled = true
	})
	return settled
}

func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolved returns an already settled future.
func Resolved[T any](v T, err error) *Future[T] {
	p := NewPromise[T]()
	p.Resolve(v, err)
	return p.Future()
}

// Go runs fn in its own goroutine and returns its future.
// If ctx is already done, fn is not called and the future settles with ctx.Err().
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	p := NewPromise[T]()

	go func() {
		if err := ctx.Err(); err != nil {
			var zero T
			p.Resolve(zero, err)
			return
		}
		p.Resolve(fn(ctx))
	}()

	return p.Future()
}
