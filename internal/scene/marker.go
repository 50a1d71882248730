// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"github.com/tomtom215/wayfarer/internal/models"
)

// SizeTier is the marker size bucket derived from the settled zoom.
type SizeTier string

const (
	TierSmall   SizeTier = "small"
	TierDefault SizeTier = "default"
)

// DefaultSmallTierBelow is the zoom under which markers use the small tier.
const DefaultSmallTierBelow = 2.0

// Marker pixel sizes per tier.
const (
	MarkerSizeSmall   = 16.0
	MarkerSizeDefault = 24.0
)

// Marker fills. Only visited markers are green; bucket-list and unvisited
// markers share the pending color.
const (
	ColorVisited Color = "#22c55e"
	ColorPending Color = "#f59e0b"
)

// TierForZoom returns TierSmall when zoom is below threshold.
func TierForZoom(zoom, threshold float64) SizeTier {
	if threshold <= 0 {
		threshold = DefaultSmallTierBelow
	}
	if zoom < threshold {
		return TierSmall
	}
	return TierDefault
}

// VisualItem is the render-time view of one item. It is derived from the
// selection list on every render and never persisted. Its fields are exactly
// the leaf equality key: an unchanged VisualItem is never redrawn.
type VisualItem struct {
	ID             string
	Name           string
	Status         models.Status
	SizeTier       SizeTier
	Coordinates    models.Coordinates
	HasCoordinates bool
}

// NewVisualItem builds the view of item with status st at tier.
func NewVisualItem(item models.Item, st models.Status, tier SizeTier) VisualItem {
	v := VisualItem{ID: item.ID, Name: item.Label(), Status: st, SizeTier: tier}
	if item.Coordinates != nil && item.Coordinates.Valid() {
		v.Coordinates = *item.Coordinates
		v.HasCoordinates = true
	}
	return v
}

// Instruction tells a Drawer how to paint one marker.
type Instruction struct {
	Icon      IconKind
	FillColor Color
	Size      float64
	Class     string
	Title     string
}

// MarkerInstruction returns the paint instruction for item at tier.
func MarkerInstruction(item VisualItem, tier SizeTier) Instruction {
	in := Instruction{
		Icon:      IconPin,
		FillColor: ColorPending,
		Size:      MarkerSizeDefault,
		Class:     "marker " + RegionClass(item.Status),
		Title:     item.Name,
	}
	if item.Status == models.StatusVisited {
		in.FillColor = ColorVisited
	}
	if tier == TierSmall {
		in.Icon = IconDot
		in.Size = MarkerSizeSmall
	}
	return in
}
