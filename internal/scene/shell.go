// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"fmt"
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/debounce"
	"github.com/tomtom215/wayfarer/internal/viewport"
)

// Hint ids and texts.
const (
	HintScroll = "scroll-hint"
	HintTouch  = "touch-hint"

	ScrollHintText = "Hold Ctrl (or ⌘) and scroll to zoom the map"
	TouchHintText  = "Use two fingers to move the map"
)

// ShellConfig sizes the surface and sets its timing.
type ShellConfig struct {
	Width              float64       `koanf:"width"`
	Height             float64       `koanf:"height"`
	ZoomDebounce       time.Duration `koanf:"zoom_debounce"`
	ScrollHintDuration time.Duration `koanf:"scroll_hint_duration"`
	TouchHintDuration  time.Duration `koanf:"touch_hint_duration"`
	SmallTierBelow     float64       `koanf:"small_tier_below"`
}

// DefaultShellConfig returns an 800x500 surface with 150ms zoom debounce
// and 2s hints.
func DefaultShellConfig() ShellConfig {
	return ShellConfig{
		Width:              800,
		Height:             500,
		ZoomDebounce:       150 * time.Millisecond,
		ScrollHintDuration: 2 * time.Second,
		TouchHintDuration:  2 * time.Second,
		SmallTierBelow:     DefaultSmallTierBelow,
	}
}

func (c ShellConfig) normalize() ShellConfig {
	d := DefaultShellConfig()
	if !(c.Width > 0) {
		c.Width = d.Width
	}
	if !(c.Height > 0) {
		c.Height = d.Height
	}
	if c.ZoomDebounce <= 0 {
		c.ZoomDebounce = d.ZoomDebounce
	}
	if c.ScrollHintDuration <= 0 {
		c.ScrollHintDuration = d.ScrollHintDuration
	}
	if c.TouchHintDuration <= 0 {
		c.TouchHintDuration = d.TouchHintDuration
	}
	if !(c.SmallTierBelow > 0) {
		c.SmallTierBelow = d.SmallTierBelow
	}
	return c
}

// ZoomState is what the shell hands to its children on each render.
// Zoom and Tier follow the debounced zoom; Transform follows the committed
// position.
type ZoomState struct {
	Zoom      float64
	Tier      SizeTier
	Position  viewport.Position
	Transform Transform
}

// WheelEvent is a wheel input over the surface.
type WheelEvent struct {
	DeltaY float64 `json:"delta_y"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
}

// TouchEvent reports the active touch count and whether the touches moved.
type TouchEvent struct {
	Touches int  `json:"touches"`
	Moving  bool `json:"moving"`
}

// Shell wraps map content: it owns the committed transform, the debounced
// zoom used for marker sizing, and the scroll and touch hints.
type Shell struct {
	cfg          ShellConfig
	vp           *viewport.Controller
	transform    Transform
	zoom         *debounce.Value[float64]
	scrollHint   *debounce.AutoHide
	touchHint    *debounce.AutoHide
	unsubscribe  func()
	onInvalidate func()
	onHint       func(id string, visible bool)
	closed       bool
}

// ShellOptions wires the shell to its host.
type ShellOptions struct {
	Clock clock.Clock
	// OnInvalidate is called whenever a re-render is due.
	OnInvalidate func()
	// OnHint is called when a hint shows or hides.
	OnHint func(id string, visible bool)
}

// NewShell subscribes to vp. Call Close to release the subscription and timers.
func NewShell(vp *viewport.Controller, cfg ShellConfig, opts ShellOptions) *Shell {
	cfg = cfg.normalize()
	s := &Shell{cfg: cfg, vp: vp, onInvalidate: opts.OnInvalidate, onHint: opts.OnHint}

	pos := vp.Position()
	s.transform = NewTransform(pos, cfg.Width, cfg.Height)
	s.zoom = debounce.NewValue(opts.Clock, cfg.ZoomDebounce, pos.Zoom, func(float64) { s.invalidate() })
	s.scrollHint = debounce.NewAutoHide(opts.Clock, cfg.ScrollHintDuration, func(v bool) { s.hintChanged(HintScroll, v) })
	s.touchHint = debounce.NewAutoHide(opts.Clock, cfg.TouchHintDuration, func(v bool) { s.hintChanged(HintTouch, v) })

	// The transform is committed once per committed viewport change (move
	// end or explicit zoom), never per intermediate pan frame.
	s.unsubscribe = vp.Subscribe(func(p viewport.Position) {
		if s.closed {
			return
		}
		s.transform = NewTransform(p, cfg.Width, cfg.Height)
		s.zoom.Set(p.Zoom)
		s.invalidate()
	})
	return s
}

// Config returns the normalized configuration.
func (s *Shell) Config() ShellConfig { return s.cfg }

// Transform returns the committed transform.
func (s *Shell) Transform() Transform { return s.transform }

// State returns the current ZoomState.
func (s *Shell) State() ZoomState {
	z := s.zoom.Current()
	return ZoomState{
		Zoom:      z,
		Tier:      TierForZoom(z, s.cfg.SmallTierBelow),
		Position:  s.vp.Position(),
		Transform: s.transform,
	}
}

// Frame returns the root frame description.
func (s *Shell) Frame() Frame {
	return Frame{
		Width:       s.cfg.Width,
		Height:      s.cfg.Height,
		Isolation:   "layout paint",
		AspectRatio: fmt.Sprintf("%g / %g", s.cfg.Width, s.cfg.Height),
	}
}

// Render draws one frame: root, children, then visible hints.
func (s *Shell) Render(d Drawer, children func(ZoomState)) {
	fd, framed := d.(FrameDrawer)
	if framed {
		fd.BeginFrame(s.Frame())
	}
	if children != nil {
		children(s.State())
	}
	if od, ok := d.(OverlayDrawer); ok {
		if s.scrollHint.Visible() {
			od.DrawHint(HintScroll, ScrollHintText)
		}
		if s.touchHint.Visible() {
			od.DrawHint(HintTouch, TouchHintText)
		}
	}
	if framed {
		fd.EndFrame()
	}
}

// OnWheel zooms when a modifier is held and reports true (the host should
// cancel page scrolling). Without a modifier it shows the scroll hint and
// reports false so the page scrolls normally.
func (s *Shell) OnWheel(ev WheelEvent) bool {
	if s.closed {
		return false
	}
	if ev.Ctrl || ev.Meta {
		if ev.DeltaY < 0 {
			s.vp.ZoomIn()
		} else if ev.DeltaY > 0 {
			s.vp.ZoomOut()
		}
		return true
	}
	s.scrollHint.Show()
	return false
}

// OnTouch shows the touch hint for single-finger pans and keeps it up while
// more than one finger is down.
func (s *Shell) OnTouch(ev TouchEvent) {
	if s.closed {
		return
	}
	switch {
	case ev.Touches >= 2:
		if s.touchHint.Visible() {
			s.touchHint.Hold()
		}
	case ev.Touches == 1 && ev.Moving:
		s.touchHint.Show()
	default:
		if s.touchHint.Held() {
			s.touchHint.Release()
		}
	}
}

// HintVisible reports whether the hint with id is showing.
func (s *Shell) HintVisible(id string) bool {
	switch id {
	case HintScroll:
		return s.scrollHint.Visible()
	case HintTouch:
		return s.touchHint.Visible()
	}
	return false
}

// Close unsubscribes from the viewport and stops every timer.
func (s *Shell) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.unsubscribe()
	s.zoom.Close()
	s.scrollHint.Close()
	s.touchHint.Close()
}

func (s *Shell) hintChanged(id string, visible bool) {
	if s.closed {
		return
	}
	if s.onHint != nil {
		s.onHint(id, visible)
	}
	s.invalidate()
}

func (s *Shell) invalidate() {
	if !s.closed && s.onInvalidate != nil {
		s.onInvalidate()
	}
}
