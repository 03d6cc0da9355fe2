// Package activity delivers user interaction signals to the session so idle time can be measured.
package activity

import (
	"log/slog"
	"sync"

	"github.com/Ryan-Har/vibesession/internal/logutil"
)

// Kind names an interaction event.
type Kind string

const (
	PointerDown Kind = "pointerdown"
	PointerMove Kind = "pointermove"
	KeyPress    Kind = "keypress"
	Scroll      Kind = "scroll"
	TouchStart  Kind = "touchstart"
)

// DefaultKinds returns the interaction kinds that count as activity for the session.
func DefaultKinds() []Kind {
	return []Kind{PointerDown, PointerMove, KeyPress, Scroll, TouchStart}
}

// Handler is called once per delivered event.
type Handler func(Kind)

// Subscription is a live registration on a Source.
type Subscription interface {
	// Unsubscribe stops delivery. Calling it more than once is a no-op.
	Unsubscribe()
}

// Source is anything that can deliver interaction events.
type Source interface {
	// Subscribe registers handler for the given kinds. No kinds means every kind.
	Subscribe(handler Handler, kinds ...Kind) Subscription
}

// Bus is an in-process Source. Events are pushed with Publish.
type Bus struct {
	mu     sync.Mutex
	log    *slog.Logger
	nextID uint64
	subs   map[uint64]*subscription
}

type subscription struct {
	bus     *Bus
	id      uint64
	handler Handler
	kinds   map[Kind]struct{}
	once    sync.Once
}

// NewBus returns an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		log:  logutil.OrDiscard(logger),
		subs: make(map[uint64]*subscription),
	}
}

// Subscribe implements Source.
func (b *Bus) Subscribe(handler Handler, kinds ...Kind) Subscription {
	s := &subscription{
		bus:     b,
		handler: handler,
	}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = struct{}{}
		}
	}

	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	b.mu.Unlock()

	b.log.Debug("activity subscription added", "subscription_id", s.id, "kinds", len(kinds))
	return s
}

// Publish delivers kind to every matching subscriber and returns how many were notified.
// Handlers run on the caller's goroutine, outside the bus lock, so they may unsubscribe.
func (b *Bus) Publish(kind Kind) int {
	b.mu.Lock()
	targets := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.wants(kind) {
			targets = append(targets, s)
		}
	}
	b.mu.Unlock()

	for _, s := range targets {
		s.handler(kind)
	}
	return len(targets)
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (s *subscription) wants(kind Kind) bool {
	if s.kinds == nil {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		s.bus.log.Debug("activity subscription removed", "subscription_id", s.id)
	})
}
