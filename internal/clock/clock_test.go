// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	c := NewFake(epoch)
	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(250 * time.Millisecond)
	if got := len(order); got != 2 {
		t.Fatalf("fired = %d, want 2", got)
	}
	if order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
	if got := c.Now(); !got.Equal(epoch.Add(250 * time.Millisecond)) {
		t.Errorf("Now() = %v, want epoch+250ms", got)
	}

	c.Advance(time.Second)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestFake_Stop(t *testing.T) {
	t.Parallel()

	c := NewFake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("first Stop() = false, want true")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFake_CallbackSeesDeadlineAndCanReschedule(t *testing.T) {
	t.Parallel()

	c := NewFake(epoch)
	var seen []time.Duration
	c.AfterFunc(100*time.Millisecond, func() {
		seen = append(seen, c.Now().Sub(epoch))
		c.AfterFunc(100*time.Millisecond, func() {
			seen = append(seen, c.Now().Sub(epoch))
		})
	})

	c.Advance(500 * time.Millisecond)

	if len(seen) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(seen))
	}
	if seen[0] != 100*time.Millisecond || seen[1] != 200*time.Millisecond {
		t.Errorf("seen = %v, want [100ms 200ms]", seen)
	}
}

func TestOnLoop_PostsCallbacks(t *testing.T) {
	t.Parallel()

	base := NewFake(epoch)
	var queue []func()
	c := OnLoop(base, func(fn func()) { queue = append(queue, fn) })

	fired := 0
	c.AfterFunc(time.Second, func() { fired++ })
	base.Advance(time.Second)

	if fired != 0 {
		t.Fatalf("callback ran on timer path, want posted")
	}
	if len(queue) != 1 {
		t.Fatalf("queue = %d, want 1", len(queue))
	}
	queue[0]()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestOnLoop_StopAfterPostSuppresses(t *testing.T) {
	t.Parallel()

	base := NewFake(epoch)
	var queue []func()
	c := OnLoop(base, func(fn func()) { queue = append(queue, fn) })

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	base.Advance(time.Second)

	if timer.Stop() {
		t.Error("Stop() after expiry = true, want false")
	}
	for _, fn := range queue {
		fn()
	}
	if fired {
		t.Error("callback ran after Stop()")
	}
}

func TestReal_Now(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := Real().Now()
	if got.Before(before) {
		t.Errorf("Real().Now() = %v, before %v", got, before)
	}
}
