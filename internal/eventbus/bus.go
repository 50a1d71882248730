// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package eventbus carries document-level input events (scroll, touch start,
// pointer up and cancel) to the components that need to observe them outside
// their own element. Every subscription returns a handle whose Unsubscribe
// removes it, so components can tear their listeners down on close.
package eventbus

import (
	"sync"
	"time"
)

// Kind identifies a global input event.
type Kind string

const (
	KindScroll        Kind = "scroll"
	KindTouchStart    Kind = "touchstart"
	KindPointerUp     Kind = "pointerup"
	KindPointerCancel Kind = "pointercancel"
)

// Event is a global input event. Target is the id of the element the event
// was dispatched on, empty when unknown.
type Event struct {
	Kind      Kind
	PointerID int
	X, Y      float64
	Target    string
	Time      time.Time
}

// Handler receives published events.
type Handler func(Event)

// Bus is a synchronous publish/subscribe registry keyed by event kind.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Kind][]entry
}

type entry struct {
	id uint64
	fn Handler
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[Kind][]entry)}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus  *Bus
	kind Kind
	id   uint64
	once sync.Once
}

// Subscribe registers fn for events of kind.
func (b *Bus) Subscribe(kind Kind, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], entry{id: b.nextID, fn: fn})
	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		b := s.bus
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.handlers[s.kind]
		for i, e := range list {
			if e.id == s.id {
				b.handlers[s.kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(b.handlers[s.kind]) == 0 {
			delete(b.handlers, s.kind)
		}
	})
}

// Publish delivers ev to every handler subscribed to ev.Kind, in subscription
// order. Handlers may subscribe or unsubscribe during delivery; the change
// applies from the next Publish.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	list := b.handlers[ev.Kind]
	snapshot := make([]Handler, len(list))
	for i, e := range list {
		snapshot[i] = e.fn
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn(ev)
	}
}

// Len returns the number of handlers subscribed to kind.
func (b *Bus) Len(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kind])
}
