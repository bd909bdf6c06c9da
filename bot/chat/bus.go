package chat

import (
	"sync"
	"sync/atomic"
)

// Bus fans inbound messages out to subscribed listeners. Gateways embed it.
type Bus struct {
	listeners []*subscription
	mutex     sync.RWMutex
}

type subscription struct {
	bus      *Bus
	listener Listener
	once     sync.Once
	removed  atomic.Bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make([]*subscription, 0),
	}
}

// Subscribe registers l for every message published after this call returns.
func (b *Bus) Subscribe(l Listener) Subscription {
	s := &subscription{bus: b, listener: l}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.listeners = append(b.listeners, s)
	return s
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.removed.Store(true)
		s.bus.remove(s)
	})
}

func (b *Bus) remove(s *subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for i, l := range b.listeners {
		if l == s {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers msg to the listeners subscribed at the time of the call, in
// subscription order. Listeners added during delivery do not see the current
// message; listeners removed during delivery are skipped.
func (b *Bus) Publish(msg Message) {
	b.mutex.RLock()
	listeners := make([]*subscription, len(b.listeners))
	copy(listeners, b.listeners)
	b.mutex.RUnlock()

	for _, l := range listeners {
		if l.removed.Load() {
			continue
		}
		l.listener(msg)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.listeners)
}
