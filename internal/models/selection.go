// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import (
	"math"
	"strings"
	"time"
)

// Category names a family of selectable items ("countries", "states", "nationalParks").
type Category string

// MapKind selects how a category is drawn.
type MapKind string

const (
	// KindRegion draws whole polygons colored by status (choropleth).
	KindRegion MapKind = "region"

	// KindMarker draws one icon per point-of-interest item.
	KindMarker MapKind = "marker"
)

// Coordinates is a WGS84 longitude/latitude pair in degrees.
type Coordinates struct {
	Lon float64 `json:"lon" validate:"longitude"`
	Lat float64 `json:"lat" validate:"latitude"`
}

// Valid reports whether both components are finite and inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// Selection is one record of the domain selection list for a category.
// Records with Deleted set are soft-deleted and count as absent.
type Selection struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Deleted   bool      `json:"deleted,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is the metadata for a selectable item: its label and, for marker
// categories, its location.
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Label returns the human-readable name, falling back to the raw id.
func (i Item) Label() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return i.ID
}

// ToggleFunc is invoked with the item id and its status at the time of a
// confirmed tap. Persisting the change is entirely the caller's concern.
type ToggleFunc func(id string, current Status)

// RegionClickFunc is invoked when the background region under a tap is
// selected for drill-down navigation.
type RegionClickFunc func(category Category, regionID string)
