package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/eidsession/pkg/logger"
)

// Handler receives one payload.
type Handler[T any] func(ctx context.Context, payload T)

// Option configures a Bus.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger used to report recovered handler panics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

type entry[T any] struct {
	id uint64
	fn Handler[T]
}

// Bus is a typed, topic-keyed observer. The zero value is not usable; use New.
type Bus[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]entry[T]
	log      *slog.Logger
}

func New[T any](opts ...Option) *Bus[T] {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[T]{
		handlers: make(map[string][]entry[T]),
		log:      o.log,
	}
}

// Subscribe registers fn for topic. Nil handlers are ignored but still return
// a valid Subscription.
func (b *Bus[T]) Subscribe(topic string, fn Handler[T]) *Subscription {
	if fn == nil {
		return &Subscription{}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], entry[T]{id: id, fn: fn})
	b.mu.Unlock()

	return &Subscription{unsubscribe: func() { b.remove(topic, id) }}
}

// Emit calls every handler of topic in subscription order and returns how
// many were called. The handler list is snapshotted first, so handlers may
// subscribe or unsubscribe while being called.
func (b *Bus[T]) Emit(ctx context.Context, topic string, payload T) int {
	b.mu.RLock()
	snapshot := append([]entry[T](nil), b.handlers[topic]...)
	b.mu.RUnlock()

	for _, e := range snapshot {
		b.call(ctx, topic, e.fn, payload)
	}
	return len(snapshot)
}

// Len returns the number of handlers subscribed to topic.
func (b *Bus[T]) Len(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}

// Clear drops every subscription.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	clear(b.handlers)
	b.mu.Unlock()
}

// Stream delivers the payloads of topic to a buffered channel until ctx is
// done, at which point the channel is closed. Payloads that do not fit into
// the buffer are dropped.
func (b *Bus[T]) Stream(ctx context.Context, topic string, buffer int) <-chan T {
	ch := make(chan T, max(buffer, 1))

	var (
		mu     sync.Mutex
		closed bool
	)
	sub := b.Subscribe(topic, func(_ context.Context, v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- v:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

func (b *Bus[T]) call(ctx context.Context, topic string, fn Handler[T], payload T) {
	defer func() {
		if r := recover(); r != nil {
			b.log.ErrorContext(ctx, "event handler panicked",
				logger.Component("events"),
				logger.Event(topic),
				logger.Error(fmt.Errorf("%v", r)),
			)
		}
	}()
	fn(ctx, payload)
}

func (b *Bus[T]) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[topic]
	for i, e := range list {
		if e.id == id {
			b.handlers[topic] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.handlers[topic]) == 0 {
		delete(b.handlers, topic)
	}
}

// Subscription is returned by Subscribe.
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}
