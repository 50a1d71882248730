// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// PositionSink receives tooltip positions in screen pixels. Writes bypass
// the render path entirely.
type PositionSink interface {
	SetPosition(x, y float64)
}

// PositionSinkFunc adapts a function to PositionSink.
type PositionSinkFunc func(x, y float64)

// SetPosition implements PositionSink.
func (f PositionSinkFunc) SetPosition(x, y float64) { f(x, y) }

// TooltipConfig offsets the tooltip from the pointer.
type TooltipConfig struct {
	OffsetX float64 `koanf:"offset_x"`
	OffsetY float64 `koanf:"offset_y"`
}

// DefaultTooltipConfig places the tooltip above and to the right.
func DefaultTooltipConfig() TooltipConfig {
	return TooltipConfig{OffsetX: 12, OffsetY: -40}
}

// Tooltip is a screen-space overlay. Content changes notify observers;
// position changes go straight to the sink.
type Tooltip struct {
	cfg       TooltipConfig
	sink      PositionSink
	onContent func(text string, visible bool)
	subs      []*eventbus.Subscription

	text    string
	owner   string
	visible bool
	closed  bool
}

// NewTooltip creates a hidden tooltip. Scroll and touch-start listeners are
// registered on bus once, here, and removed by Close.
func NewTooltip(bus *eventbus.Bus, sink PositionSink, cfg TooltipConfig, onContent func(text string, visible bool)) *Tooltip {
	t := &Tooltip{cfg: cfg, sink: sink, onContent: onContent}
	if bus != nil {
		t.subs = append(t.subs,
			bus.Subscribe(eventbus.KindScroll, func(eventbus.Event) { t.Hide() }),
			bus.Subscribe(eventbus.KindTouchStart, func(ev eventbus.Event) {
				if t.owner != "" && ev.Target == t.owner {
					return
				}
				t.Hide()
			}),
		)
	}
	return t
}

// Show displays text at p.
func (t *Tooltip) Show(text string, p Point) {
	t.ShowFor("", text, p)
}

// ShowFor displays text at p on behalf of the element owner. A touch start
// on the owner does not dismiss it.
func (t *Tooltip) ShowFor(owner, text string, p Point) {
	if t.closed {
		return
	}
	t.owner = owner
	changed := !t.visible || t.text != text
	t.text = text
	t.visible = true
	t.Move(p)
	if changed && t.onContent != nil {
		t.onContent(text, true)
	}
}

// Move repositions a visible tooltip.
func (t *Tooltip) Move(p Point) {
	if t.closed || !t.visible {
		return
	}
	if t.sink != nil {
		t.sink.SetPosition(p.X+t.cfg.OffsetX, p.Y+t.cfg.OffsetY)
	}
	metrics.RecordTooltipMove()
}

// Hide removes the tooltip.
func (t *Tooltip) Hide() {
	if t.closed || !t.visible {
		return
	}
	t.visible = false
	t.text = ""
	t.owner = ""
	if t.onContent != nil {
		t.onContent("", false)
	}
}

// Visible reports whether the tooltip is showing.
func (t *Tooltip) Visible() bool { return t.visible }

// Text returns the current content.
func (t *Tooltip) Text() string { return t.text }

// Owner returns the element the tooltip was shown for.
func (t *Tooltip) Owner() string { return t.owner }

// Close removes the dismissal listeners.
func (t *Tooltip) Close() {
	if t.closed {
		return
	}
	t.closed = true
	for _, s := range t.subs {
		s.Unsubscribe()
	}
	t.subs = nil
}
