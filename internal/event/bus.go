package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/inkwell/internal/logging"
)

// Bus delivers events to the handlers whose pattern matches.
// Subscribing and unsubscribing are safe from any goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID uint64

	log *logging.Logger

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

type subscription struct {
	id      uint64
	pattern Topic
	handler Handler
	once    bool
	done    atomic.Bool
}

// Stats reports delivery counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
	Subscriptions int
}

// NewBus creates a bus. A nil logger discards handler panics.
func NewBus(log *logging.Logger) *Bus {
	if log == nil {
		log = logging.Nop()
	}
	return &Bus{log: log.WithComponent("event")}
}

// Subscribe registers handler for topics matching pattern and returns a
// function that removes it.
func (b *Bus) Subscribe(pattern Topic, handler Handler) (func(), error) {
	return b.subscribe(pattern, handler, false)
}

// SubscribeOnce is Subscribe for a single delivery.
func (b *Bus) SubscribeOnce(pattern Topic, handler Handler) (func(), error) {
	return b.subscribe(pattern, handler, true)
}

func (b *Bus) subscribe(pattern Topic, handler Handler, once bool) (func(), error) {
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	b.nextID++
	sub := &subscription{id: b.nextID, pattern: pattern, handler: handler, once: once}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return func() { b.remove(sub.id) }, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			s.done.Store(true)
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every matching handler and returns how many ran.
// Handlers subscribed during delivery see the next event, not this one.
func (b *Bus) Publish(ev Event) int {
	b.published.Add(1)

	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if ev.Topic.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	n := 0
	for _, s := range matched {
		if s.once {
			if !s.done.CompareAndSwap(false, true) {
				continue
			}
			b.remove(s.id)
		} else if s.done.Load() {
			continue
		}
		b.deliver(s, ev)
		n++
	}
	return n
}

func (b *Bus) deliver(s *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			b.log.Error("handler for %s panicked on %s: %v", s.pattern, ev.Topic, r)
		}
	}()
	s.handler(ev)
	b.delivered.Add(1)
}

// Stats returns the delivery counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.panics.Load(),
		Subscriptions: n,
	}
}
