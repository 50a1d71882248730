// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package clock abstracts wall time and deferred callbacks for the map engine.
//
// Every timer-driven behaviour of a surface (zoom debounce, hint auto-hide)
// goes through a Clock so the host can decide which control flow runs the
// callback. Real fires on a timer goroutine, OnLoop re-posts every callback
// to a host event loop, and Fake fires only when a test advances it.
package clock

import (
	"sync/atomic"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock provides the current time and one-shot deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OnLoop wraps base so that timer callbacks are handed to post instead of
// running on the timer goroutine. post typically enqueues the function on the
// goroutine that owns a surface.
//
// A timer stopped after it expired but before the posted callback ran still
// suppresses the callback.
func OnLoop(base Clock, post func(func())) Clock {
	if base == nil {
		base = Real()
	}
	return &loopClock{base: base, post: post}
}

type loopClock struct {
	base Clock
	post func(func())
}

func (c *loopClock) Now() time.Time { return c.base.Now() }

func (c *loopClock) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.inner = c.base.AfterFunc(d, func() {
		c.post(func() {
			if lt.stopped.Load() {
				return
			}
			f()
		})
	})
	return lt
}

type loopTimer struct {
	inner   Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	already := t.stopped.Swap(true)
	stopped := t.inner.Stop()
	return stopped && !already
}
