// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"github.com/paulmach/orb"

	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// Background paint.
const (
	BackgroundFill   Color = "#f8fafc"
	BackgroundStroke Color = "#cbd5e1"
)

type backgroundPath struct {
	id      string
	polygon orb.MultiPolygon
}

// Background is the static base geometry layer. Its only input is the
// geometry source: Build is a no-op while the source id is unchanged, no
// matter how often selections, zoom or visibility change.
type Background struct {
	sourceID string
	paths    []backgroundPath
	builds   int
}

// Build prepares the layer for p. It rebuilds only when p is a different
// source than the one already built.
func (b *Background) Build(p *geometry.Projected) {
	if p == nil {
		return
	}
	if b.builds > 0 && b.sourceID == p.SourceID {
		return
	}
	paths := make([]backgroundPath, len(p.Regions))
	for i, r := range p.Regions {
		paths[i] = backgroundPath{id: r.ID, polygon: r.Polygon}
	}
	b.sourceID = p.SourceID
	b.paths = paths
	b.builds++
	metrics.RecordBackgroundBuild(p.SourceID)
}

// Draw paints the base geometry.
func (b *Background) Draw(d Drawer, t Transform) {
	beginLayer(d, "background")
	defer endLayer(d)

	style := PathStyle{Fill: BackgroundFill, Stroke: BackgroundStroke, StrokeWidth: 0.5, Class: "background"}
	for _, p := range b.paths {
		d.DrawPath("bg-"+p.id, t.multiRings(p.polygon), style)
	}
}

// SourceID returns the id of the built source.
func (b *Background) SourceID() string { return b.sourceID }

// Builds returns how many times the layer was built.
func (b *Background) Builds() int { return b.builds }
