// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package debounce

import (
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
)

// AutoHide is a visibility flag that clears itself after a fixed duration.
// Hold keeps it visible indefinitely until Release restarts the countdown.
type AutoHide struct {
	clk      clock.Clock
	duration time.Duration
	visible  bool
	held     bool
	timer    clock.Timer
	onChange func(visible bool)
	closed   bool
}

// NewAutoHide returns a hidden indicator. onChange, when non-nil, is called
// on every visibility transition.
func NewAutoHide(clk clock.Clock, duration time.Duration, onChange func(visible bool)) *AutoHide {
	if clk == nil {
		clk = clock.Real()
	}
	return &AutoHide{clk: clk, duration: duration, onChange: onChange}
}

// Show makes the indicator visible and restarts the hide countdown.
func (a *AutoHide) Show() {
	if a.closed {
		return
	}
	a.setVisible(true)
	if !a.held {
		a.restart()
	}
}

// Hold shows the indicator and suspends the countdown.
func (a *AutoHide) Hold() {
	if a.closed {
		return
	}
	a.held = true
	a.stopTimer()
	a.setVisible(true)
}

// Release ends a Hold and restarts the countdown from now.
func (a *AutoHide) Release() {
	if a.closed || !a.held {
		return
	}
	a.held = false
	if a.visible {
		a.restart()
	}
}

// Hide clears the indicator immediately.
func (a *AutoHide) Hide() {
	a.held = false
	a.stopTimer()
	a.setVisible(false)
}

// Visible reports whether the indicator is showing.
func (a *AutoHide) Visible() bool {
	return a.visible
}

// Held reports whether a Hold is active.
func (a *AutoHide) Held() bool {
	return a.held
}

// Close stops the countdown without notifying.
func (a *AutoHide) Close() {
	a.closed = true
	a.stopTimer()
}

func (a *AutoHide) restart() {
	a.stopTimer()
	a.timer = a.clk.AfterFunc(a.duration, func() {
		a.timer = nil
		if a.closed || a.held {
			return
		}
		a.setVisible(false)
	})
}

func (a *AutoHide) stopTimer() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *AutoHide) setVisible(v bool) {
	if a.visible == v {
		return
	}
	a.visible = v
	if a.onChange != nil && !a.closed {
		a.onChange(v)
	}
}
