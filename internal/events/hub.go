// Package events provides a synchronous, in-process publish/subscribe point.
//
// Subscribers are invoked on the publishing goroutine, one after another, in
// the order they subscribed. There is no queue and no background dispatch:
// Publish returns once every subscriber has run.
//
// Thread Safety:
//   - Subscribe, Unsubscribe and Publish may be called concurrently.
//   - The subscriber list is snapshotted before dispatch, so a subscriber may
//     subscribe, unsubscribe or publish again without deadlocking.
package events

import (
	"sync"
)

// Logger is the logging surface used to report recovered subscriber panics.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// Subscription identifies one registered subscriber.
type Subscription uint64

type subscriber[T any] struct {
	id Subscription
	fn func(T)
}

// Hub is a typed observer list.
type Hub[T any] struct {
	name   string
	mu     sync.RWMutex
	subs   []subscriber[T]
	nextID Subscription
	logger Logger
}

// NewHub creates an empty hub. The name only appears in log output.
func NewHub[T any](name string) *Hub[T] {
	return &Hub[T]{
		name:   name,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger used to report subscriber panics.
func (h *Hub[T]) SetLogger(logger Logger) {
	h.mu.Lock()
	h.logger = logger
	h.mu.Unlock()
}

// Subscribe registers fn and returns a handle for Unsubscribe.
func (h *Hub[T]) Subscribe(fn func(T)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.subs = append(h.subs, subscriber[T]{id: h.nextID, fn: fn})
	return h.nextID
}

// Unsubscribe removes a subscriber. It returns false if the handle is unknown.
func (h *Hub[T]) Unsubscribe(id Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s.id == id {
			// Copy rather than reslice in place: a Publish in flight still
			// holds the old backing array.
			next := make([]subscriber[T], 0, len(h.subs)-1)
			next = append(next, h.subs[:i]...)
			next = append(next, h.subs[i+1:]...)
			h.subs = next
			return true
		}
	}
	return false
}

// Publish delivers v to every subscriber and returns how many ran.
// A panicking subscriber is logged and skipped; later subscribers still run.
func (h *Hub[T]) Publish(v T) int {
	h.mu.RLock()
	subs := h.subs
	logger := h.logger
	h.mu.RUnlock()

	for _, s := range subs {
		h.deliver(s, v, logger)
	}
	return len(subs)
}

// Len returns the number of subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub[T]) deliver(s subscriber[T], v T, logger Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event subscriber panic recovered",
				"hub", h.name,
				"subscription", uint64(s.id),
				"panic", r,
			)
		}
	}()
	s.fn(v)
}
