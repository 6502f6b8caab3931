// Package signal provides a small single-producer, multi-consumer pub/sub
// channel used for Underrun notifications and FSM state-transition
// diagnostics, replacing the original's language-level event/observer
// pattern with a single generic primitive.
package signal

import (
	"sync"
	"sync/atomic"
)

// Bus fans a single producer's values out to any number of subscribers.
// Publish never blocks and never locks: the realtime thread that calls it
// must not contend with Subscribe/Unsubscribe on the control thread, so the
// subscriber set is held as a copy-on-write slice swapped via atomic.Pointer
// rather than guarded by a mutex. A subscriber whose channel is full simply
// misses the value, which is the right tradeoff for a realtime producer —
// the Underrun signal must not be able to stall the RT thread waiting on a
// slow diagnostic consumer.
type Bus[T any] struct {
	subs atomic.Pointer[[]chan T]
	wmu  sync.Mutex // serializes Subscribe/Unsubscribe writers only
}

// NewBus returns an empty bus.
func NewBus[T any]() *Bus[T] {
	b := &Bus[T]{}
	empty := make([]chan T, 0)
	b.subs.Store(&empty)
	return b
}

// Subscribe registers a new listener with the given channel buffer depth
// and returns the receive side.
func (b *Bus[T]) Subscribe(buffer int) <-chan T {
	ch := make(chan T, buffer)

	b.wmu.Lock()
	defer b.wmu.Unlock()

	old := *b.subs.Load()
	next := make([]chan T, len(old), len(old)+1)
	copy(next, old)
	next = append(next, ch)
	b.subs.Store(&next)

	return ch
}

// Unsubscribe removes a listener and closes its channel. ch must be the
// channel returned by Subscribe.
func (b *Bus[T]) Unsubscribe(ch <-chan T) {
	b.wmu.Lock()
	defer b.wmu.Unlock()

	old := *b.subs.Load()
	next := make([]chan T, 0, len(old))
	for _, c := range old {
		if (<-chan T)(c) == ch {
			close(c)
			continue
		}
		next = append(next, c)
	}
	b.subs.Store(&next)
}

// Publish delivers v to every current subscriber without blocking or
// locking; a subscriber that isn't keeping up drops the value. Safe to call
// from the realtime audio thread.
func (b *Bus[T]) Publish(v T) {
	subs := *b.subs.Load()
	for _, ch := range subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are currently attached.
func (b *Bus[T]) SubscriberCount() int {
	return len(*b.subs.Load())
}
