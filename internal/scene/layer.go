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

// LayerKind selects what a Layer's leaves paint.
type LayerKind string

const (
	LayerMarkers LayerKind = "markers"
	LayerRegions LayerKind = "regions"
)

type leaf struct {
	item   VisualItem
	marker Instruction
	style  PathStyle
	unit   orb.Point
}

// ReconcileStats reports what one Reconcile did.
type ReconcileStats struct {
	Rendered int
	Skipped  int
	Removed  int
}

// Layer is the retained set of marker or region leaves. Reconcile rebuilds a
// leaf only when its VisualItem changed, so toggling one item out of
// thousands rebuilds one leaf.
type Layer struct {
	kind    LayerKind
	leaves  map[string]*leaf
	order   []string
	last    ReconcileStats
	renders int
}

// NewLayer creates an empty layer.
func NewLayer(kind LayerKind) *Layer {
	return &Layer{kind: kind, leaves: make(map[string]*leaf)}
}

// Kind returns the layer kind.
func (l *Layer) Kind() LayerKind { return l.kind }

// Reconcile brings the layer in line with items, preserving their order.
// Marker layers skip items without coordinates.
func (l *Layer) Reconcile(items []VisualItem) ReconcileStats {
	var stats ReconcileStats
	next := make(map[string]*leaf, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if l.kind == LayerMarkers && !item.HasCoordinates {
			continue
		}
		if _, dup := next[item.ID]; dup {
			continue
		}
		order = append(order, item.ID)

		if prev, ok := l.leaves[item.ID]; ok && prev.item == item {
			next[item.ID] = prev
			stats.Skipped++
			continue
		}
		next[item.ID] = l.build(item)
		stats.Rendered++
	}

	for id := range l.leaves {
		if _, ok := next[id]; !ok {
			stats.Removed++
		}
	}

	l.leaves = next
	l.order = order
	l.last = stats
	l.renders += stats.Rendered
	metrics.RecordLayerReconcile(stats.Rendered, stats.Skipped)
	return stats
}

func (l *Layer) build(item VisualItem) *leaf {
	lf := &leaf{item: item}
	switch l.kind {
	case LayerMarkers:
		lf.marker = MarkerInstruction(item, item.SizeTier)
		lf.unit = geometry.ProjectUnit(item.Coordinates)
	case LayerRegions:
		lf.style = RegionStyle(item)
	}
	return lf
}

// Draw paints every leaf through d. Region layers look their shapes up in
// regions; leaves without a matching region are skipped.
func (l *Layer) Draw(d Drawer, t Transform, regions *geometry.Projected) {
	beginLayer(d, string(l.kind))
	defer endLayer(d)

	for _, id := range l.order {
		lf := l.leaves[id]
		switch l.kind {
		case LayerMarkers:
			d.DrawIcon(id, lf.marker, t.Apply(lf.unit))
		case LayerRegions:
			if regions == nil {
				continue
			}
			r, ok := regions.Region(id)
			if !ok {
				continue
			}
			d.DrawPath(id, t.multiRings(r.Polygon), lf.style)
		}
	}
}

// Leaf returns the item and marker instruction of a retained leaf.
func (l *Layer) Leaf(id string) (VisualItem, Instruction, bool) {
	lf, ok := l.leaves[id]
	if !ok {
		return VisualItem{}, Instruction{}, false
	}
	return lf.item, lf.marker, true
}

// RegionLeafStyle returns the path style of a retained region leaf.
func (l *Layer) RegionLeafStyle(id string) (PathStyle, bool) {
	lf, ok := l.leaves[id]
	if !ok {
		return PathStyle{}, false
	}
	return lf.style, true
}

// Len returns the number of retained leaves.
func (l *Layer) Len() int { return len(l.order) }

// IDs returns leaf ids in draw order.
func (l *Layer) IDs() []string {
	return append([]string(nil), l.order...)
}

// LastReconcile returns the stats of the latest Reconcile.
func (l *Layer) LastReconcile() ReconcileStats { return l.last }

// Renders returns the total number of leaves ever built.
func (l *Layer) Renders() int { return l.renders }
