// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package gesture

import (
	"math"
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// Default tap thresholds. A press qualifies as a tap only when it is both
// shorter and smaller than these.
const (
	DefaultMaxTapDuration = 500 * time.Millisecond
	DefaultMaxTapDistance = 15.0
)

// PointerType is the input device reported with a pointer event.
type PointerType string

const (
	PointerMouse PointerType = "mouse"
	PointerTouch PointerType = "touch"
	PointerPen   PointerType = "pen"
)

// Button uses DOM numbering: 0 primary, 1 auxiliary, 2 secondary.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

// PointerEvent is one pointer input in screen pixels.
type PointerEvent struct {
	PointerID int         `json:"pointer_id"`
	Type      PointerType `json:"pointer_type"`
	Button    Button      `json:"button"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Time      time.Time   `json:"-"`
	Target    string      `json:"target,omitempty"`
}

// Thresholds bound what counts as a tap.
type Thresholds struct {
	MaxDuration time.Duration `koanf:"max_duration"`
	MaxDistance float64       `koanf:"max_distance"`
}

// DefaultThresholds returns 500ms / 15px.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxDuration: DefaultMaxTapDuration, MaxDistance: DefaultMaxTapDistance}
}

// State is the per-element record of an in-progress press.
type State struct {
	StartX      float64
	StartY      float64
	StartTime   time.Time
	PointerDown bool
}

// Tap distinguishes a tap from a drag or pan on one element.
// The same rule applies to mouse, touch and pen.
type Tap struct {
	onTap func()
	th    Thresholds
	clk   clock.Clock
	state State
}

// NewTap returns a disambiguator that calls onTap for every confirmed tap.
// Zero threshold fields take the defaults. clk supplies the time for events
// that arrive without one; nil means the real clock.
func NewTap(onTap func(), th Thresholds, clk clock.Clock) *Tap {
	d := DefaultThresholds()
	if th.MaxDuration <= 0 {
		th.MaxDuration = d.MaxDuration
	}
	if !(th.MaxDistance > 0) {
		th.MaxDistance = d.MaxDistance
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Tap{onTap: onTap, th: th, clk: clk}
}

// OnPointerDown starts tracking a press. Non-primary buttons are ignored.
// A second down overwrites the tracked press.
func (t *Tap) OnPointerDown(ev PointerEvent) {
	if ev.Button != ButtonPrimary {
		return
	}
	t.state = State{StartX: ev.X, StartY: ev.Y, StartTime: t.timeOf(ev), PointerDown: true}
}

// OnPointerUp ends the press and reports whether it was a tap.
func (t *Tap) OnPointerUp(ev PointerEvent) bool {
	if !t.state.PointerDown {
		return false
	}
	start := t.state
	t.state.PointerDown = false

	duration := t.timeOf(ev).Sub(start.StartTime)
	distance := math.Hypot(ev.X-start.StartX, ev.Y-start.StartY)
	if duration >= t.th.MaxDuration || !(distance < t.th.MaxDistance) {
		metrics.RecordGesture("drag")
		return false
	}

	metrics.RecordGesture("tap")
	if t.onTap != nil {
		t.onTap()
	}
	return true
}

// OnPointerLeave abandons a press in progress without firing.
func (t *Tap) OnPointerLeave() {
	if t.state.PointerDown {
		metrics.RecordGesture("leave")
	}
	t.state.PointerDown = false
}

// State returns the tracked press.
func (t *Tap) State() State { return t.state }

func (t *Tap) timeOf(ev PointerEvent) time.Time {
	if ev.Time.IsZero() {
		return t.clk.Now()
	}
	return ev.Time
}
