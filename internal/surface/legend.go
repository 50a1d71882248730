// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package surface

import (
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/scene"
	"github.com/tomtom215/wayfarer/internal/status"
)

// LegendEntry is one row of the legend control.
type LegendEntry struct {
	Status  models.Status `json:"status"`
	Label   string        `json:"label"`
	Color   scene.Color   `json:"color"`
	Visible bool          `json:"visible"`
	Count   int           `json:"count"`
}

var legendLabels = map[models.Status]string{
	models.StatusVisited:    "Visited",
	models.StatusBucketList: "Bucket list",
	models.StatusUnvisited:  "Not visited",
}

// Legend toggles which statuses the map shows.
type Legend struct {
	vis      status.Visibility
	onChange func(status.Visibility)
}

func newLegend(onChange func(status.Visibility)) *Legend {
	return &Legend{vis: status.AllVisible(), onChange: onChange}
}

// Toggle flips the visibility of s.
func (l *Legend) Toggle(s models.Status) {
	l.vis.Toggle(s)
	l.changed()
}

// Set shows or hides s. Setting the current value does nothing.
func (l *Legend) Set(s models.Status, visible bool) {
	if l.vis.Allows(s) == visible {
		return
	}
	l.vis.Set(s, visible)
	l.changed()
}

// Reset shows every status.
func (l *Legend) Reset() {
	if l.vis == status.AllVisible() {
		return
	}
	l.vis = status.AllVisible()
	l.changed()
}

// Visibility returns the current legend state.
func (l *Legend) Visibility() status.Visibility { return l.vis }

// Filter returns nil when nothing is hidden.
func (l *Legend) Filter() *status.Visibility { return l.vis.Filter() }

// Entries returns one row per status, in legend order, with the number of
// items currently in that status.
func (l *Legend) Entries(counts map[models.Status]int, kind models.MapKind) []LegendEntry {
	out := make([]LegendEntry, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		out = append(out, LegendEntry{
			Status:  s,
			Label:   legendLabels[s],
			Color:   legendColor(s, kind),
			Visible: l.vis.Allows(s),
			Count:   counts[s],
		})
	}
	return out
}

func legendColor(s models.Status, kind models.MapKind) scene.Color {
	if kind == models.KindMarker {
		return scene.MarkerInstruction(scene.VisualItem{Status: s}, scene.TierDefault).FillColor
	}
	return scene.RegionStyle(scene.VisualItem{Status: s}).Fill
}

func (l *Legend) changed() {
	if l.onChange != nil {
		l.onChange(l.vis)
	}
}
