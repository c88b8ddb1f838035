// Package eventbus provides a typed in-process publish/subscribe bus.
package eventbus

import (
	"sync"
	"sync/atomic"
)

const defaultBuffer = 8

// Option customizes a TypedBus.
type Option func(*options)

type options struct {
	buffer     int
	dropOldest bool
}

// WithBuffer sets the per-subscriber channel capacity. Values below one are
// ignored.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithDropOldest makes a full subscriber lose its oldest pending event
// instead of the new one, so that it always ends up with the latest value.
func WithDropOldest() Option {
	return func(o *options) { o.dropOldest = true }
}

// TypedBus is a type-safe publish/subscribe bus for events of type T.
type TypedBus[T any] struct {
	mu      sync.Mutex
	subs    []chan T
	closed  bool
	opts    options
	dropped atomic.Uint64
}

// NewTyped creates a new TypedBus.
func NewTyped[T any](opts ...Option) *TypedBus[T] {
	o := options{buffer: defaultBuffer}
	for _, fn := range opts {
		fn(&o)
	}
	return &TypedBus[T]{opts: o}
}

// Publish sends the event to all subscribers. Delivery is non-blocking; an
// event that cannot be queued is counted as dropped.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
			continue
		default:
		}
		b.dropped.Add(1)
		if !b.opts.dropOldest {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- e:
		default:
		}
	}
}

// Dropped returns the number of events discarded because a subscriber was
// full.
func (b *TypedBus[T]) Dropped() uint64 { return b.dropped.Load() }

// Subscribe registers a subscriber and returns its channel.
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.opts.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
