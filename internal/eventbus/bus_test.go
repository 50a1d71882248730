// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import "testing"

func TestBus_PublishByKind(t *testing.T) {
	t.Parallel()

	b := New()
	var scrolls, touches int
	b.Subscribe(KindScroll, func(Event) { scrolls++ })
	b.Subscribe(KindTouchStart, func(Event) { touches++ })

	b.Publish(Event{Kind: KindScroll})
	b.Publish(Event{Kind: KindScroll})
	b.Publish(Event{Kind: KindTouchStart})
	b.Publish(Event{Kind: KindPointerUp})

	if scrolls != 2 {
		t.Errorf("scrolls = %d, want 2", scrolls)
	}
	if touches != 1 {
		t.Errorf("touches = %d, want 1", touches)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	b := New()
	var order []string
	first := b.Subscribe(KindPointerUp, func(Event) { order = append(order, "first") })
	b.Subscribe(KindPointerUp, func(Event) { order = append(order, "second") })

	first.Unsubscribe()
	first.Unsubscribe()
	b.Publish(Event{Kind: KindPointerUp})

	if len(order) != 1 || order[0] != "second" {
		t.Errorf("order = %v, want [second]", order)
	}
	if got := b.Len(KindPointerUp); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	b := New()
	calls := 0
	var sub *Subscription
	sub = b.Subscribe(KindScroll, func(Event) {
		calls++
		sub.Unsubscribe()
	})

	b.Publish(Event{Kind: KindScroll})
	b.Publish(Event{Kind: KindScroll})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if b.Len(KindScroll) != 0 {
		t.Errorf("Len = %d, want 0", b.Len(KindScroll))
	}
}

func TestSubscription_NilSafe(t *testing.T) {
	t.Parallel()

	var s *Subscription
	s.Unsubscribe()
}
