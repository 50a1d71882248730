// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"github.com/paulmach/orb"

	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/viewport"
)

// Point is a position in screen pixels.
type Point struct {
	X, Y float64
}

// Color is a CSS hex color ("#22c55e").
type Color string

// IconKind selects a marker glyph.
type IconKind string

const (
	IconPin IconKind = "pin"
	IconDot IconKind = "dot"
)

// PathStyle describes how a polygon is painted.
type PathStyle struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
	Class       string
	Title       string
}

// Drawer is the drawing backend. All coordinates are screen pixels.
// The engine calls it from the surface's control flow only.
type Drawer interface {
	DrawPath(id string, rings [][]Point, style PathStyle)
	DrawIcon(id string, icon Instruction, at Point)
}

// Frame describes the root element of one render.
type Frame struct {
	Width  float64
	Height float64
	// Isolation is the CSS containment declared on the root ("layout paint").
	Isolation string
	// AspectRatio reserves the intrinsic size before content paints ("W / H").
	AspectRatio string
}

// FrameDrawer is implemented by drawers that emit a root element.
type FrameDrawer interface {
	BeginFrame(f Frame)
	EndFrame()
}

// LayerDrawer is implemented by drawers that group output per layer.
type LayerDrawer interface {
	BeginLayer(id string)
	EndLayer()
}

// OverlayDrawer is implemented by drawers that can show screen-space hints.
type OverlayDrawer interface {
	DrawHint(id, text string)
}

func beginLayer(d Drawer, id string) {
	if ld, ok := d.(LayerDrawer); ok {
		ld.BeginLayer(id)
	}
}

func endLayer(d Drawer) {
	if ld, ok := d.(LayerDrawer); ok {
		ld.EndLayer()
	}
}

// Transform maps the unit projection plane to screen pixels. At zoom 1 the
// whole world is one surface width wide.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// NewTransform centers pos in a width x height surface.
func NewTransform(pos viewport.Position, width, height float64) Transform {
	scale := width * pos.Zoom
	c := geometry.ProjectUnit(pos.Center)
	return Transform{
		Scale: scale,
		TX:    width/2 - c.X()*scale,
		TY:    height/2 - c.Y()*scale,
	}
}

// Apply maps a unit-plane point to the screen.
func (t Transform) Apply(p orb.Point) Point {
	return Point{X: p.X()*t.Scale + t.TX, Y: p.Y()*t.Scale + t.TY}
}

// Invert maps a screen point back to the unit plane.
func (t Transform) Invert(p Point) orb.Point {
	if t.Scale == 0 {
		return orb.Point{}
	}
	return orb.Point{(p.X - t.TX) / t.Scale, (p.Y - t.TY) / t.Scale}
}

func (t Transform) rings(poly orb.Polygon) [][]Point {
	out := make([][]Point, len(poly))
	for i, ring := range poly {
		pts := make([]Point, len(ring))
		for j, p := range ring {
			pts[j] = t.Apply(p)
		}
		out[i] = pts
	}
	return out
}

func (t Transform) multiRings(mp orb.MultiPolygon) [][]Point {
	var out [][]Point
	for _, poly := range mp {
		out = append(out, t.rings(poly)...)
	}
	return out
}
