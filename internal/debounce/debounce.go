// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package debounce settles rapidly changing values and auto-hides transient
// indicators. Both types schedule through a clock.Clock and are meant to be
// driven from a single control flow; neither is goroutine-safe.
package debounce

import (
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
)

// Value emits the latest value once it has been stable for the wait period.
//
// Every Set restarts the timer. When the timer fires and the pending value
// differs from the last emitted one, emit is called exactly once with it.
type Value[T comparable] struct {
	clk     clock.Clock
	wait    time.Duration
	current T
	pending T
	timer   clock.Timer
	emit    func(T)
	closed  bool
}

// NewValue returns a debouncer whose settled value starts at initial.
func NewValue[T comparable](clk clock.Clock, wait time.Duration, initial T, emit func(T)) *Value[T] {
	if clk == nil {
		clk = clock.Real()
	}
	return &Value[T]{clk: clk, wait: wait, current: initial, pending: initial, emit: emit}
}

// Set records v as the pending value and restarts the settle timer.
func (d *Value[T]) Set(v T) {
	if d.closed {
		return
	}
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clk.AfterFunc(d.wait, d.settle)
}

// Current returns the last settled value.
func (d *Value[T]) Current() T {
	return d.current
}

// Flush settles the pending value immediately.
func (d *Value[T]) Flush() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.settle()
}

// Close stops the timer; later calls to Set and late timer callbacks are ignored.
func (d *Value[T]) Close() {
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Value[T]) settle() {
	d.timer = nil
	if d.closed || d.pending == d.current {
		return
	}
	d.current = d.pending
	if d.emit != nil {
		d.emit(d.current)
	}
}
