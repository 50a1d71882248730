// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package viewport owns the map camera: center coordinates and zoom level.
//
// The Controller is the only writer of the position. Step zoom multiplies or
// divides by the zoom factor and leaves the center alone; a drag end or an
// explicit ZoomTo replaces the position. Every write clamps zoom into
// [MinZoom, MaxZoom], so no call can leave the camera out of range.
package viewport

import (
	"math"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Default camera bounds.
const (
	DefaultMinZoom    = 1.0
	DefaultMaxZoom    = 8.0
	DefaultZoomFactor = 1.5
)

// Config bounds the camera.
type Config struct {
	MinZoom    float64 `koanf:"min_zoom"`
	MaxZoom    float64 `koanf:"max_zoom"`
	ZoomFactor float64 `koanf:"zoom_factor"`
}

// DefaultConfig returns zoom bounds 1..8 with a 1.5 step factor.
func DefaultConfig() Config {
	return Config{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, ZoomFactor: DefaultZoomFactor}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if !(c.MinZoom > 0) || math.IsInf(c.MinZoom, 0) {
		c.MinZoom = d.MinZoom
	}
	if !(c.MaxZoom > 0) || math.IsInf(c.MaxZoom, 0) {
		c.MaxZoom = d.MaxZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MinZoom, c.MaxZoom = c.MaxZoom, c.MinZoom
	}
	if !(c.ZoomFactor > 1) || math.IsInf(c.ZoomFactor, 0) {
		c.ZoomFactor = d.ZoomFactor
	}
	return c
}

// Position is the camera state.
type Position struct {
	Center models.Coordinates `json:"center"`
	Zoom   float64            `json:"zoom"`
}

// Controller holds the current Position and notifies observers on change.
type Controller struct {
	cfg       Config
	pos       Position
	nextID    int
	observers map[int]func(Position)
}

// New returns a Controller starting at initial with its zoom clamped.
func New(cfg Config, initial Position) *Controller {
	c := &Controller{cfg: cfg.normalize(), observers: make(map[int]func(Position))}
	c.pos = Position{Center: initial.Center, Zoom: c.clamp(initial.Zoom, c.cfg.MinZoom)}
	return c
}

// Config returns the normalized bounds.
func (c *Controller) Config() Config { return c.cfg }

// Position returns the current camera state.
func (c *Controller) Position() Position { return c.pos }

// ZoomIn multiplies zoom by the factor, capped at MaxZoom.
func (c *Controller) ZoomIn() {
	c.set(Position{Center: c.pos.Center, Zoom: c.clamp(c.pos.Zoom*c.cfg.ZoomFactor, c.pos.Zoom)})
}

// ZoomOut divides zoom by the factor, floored at MinZoom.
func (c *Controller) ZoomOut() {
	c.set(Position{Center: c.pos.Center, Zoom: c.clamp(c.pos.Zoom/c.cfg.ZoomFactor, c.pos.Zoom)})
}

// OnDragEnd replaces the position with the one reported at the end of a
// pan or pinch gesture.
func (c *Controller) OnDragEnd(p Position) {
	c.set(Position{Center: p.Center, Zoom: c.clamp(p.Zoom, c.pos.Zoom)})
}

// ZoomTo centers on coords at zoom (clamped). Used to expand a marker cluster.
func (c *Controller) ZoomTo(coords models.Coordinates, zoom float64) {
	c.set(Position{Center: coords, Zoom: c.clamp(zoom, c.pos.Zoom)})
}

// CanZoomIn reports whether ZoomIn would change the zoom.
func (c *Controller) CanZoomIn() bool { return c.pos.Zoom < c.cfg.MaxZoom }

// CanZoomOut reports whether ZoomOut would change the zoom.
func (c *Controller) CanZoomOut() bool { return c.pos.Zoom > c.cfg.MinZoom }

// Subscribe registers fn to run after every committed position change and
// returns a function that removes it.
func (c *Controller) Subscribe(fn func(Position)) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Controller) set(p Position) {
	if p == c.pos {
		return
	}
	c.pos = p
	for id := 1; id <= c.nextID; id++ {
		if fn, ok := c.observers[id]; ok {
			fn(p)
		}
	}
}

// clamp bounds z into the configured range; a NaN keeps fallback.
func (c *Controller) clamp(z, fallback float64) float64 {
	if math.IsNaN(z) {
		z = fallback
	}
	return math.Min(c.cfg.MaxZoom, math.Max(c.cfg.MinZoom, z))
}
