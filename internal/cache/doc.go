// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package cache provides the in-memory data structures behind marker hit
testing and render reuse.

# Overview

  - SpatialHashGrid: fixed-size lat/lon cells indexing marker locations.
    Distances are great-circle distances from github.com/golang/geo/s2.
  - LRU: generic least recently used cache with TTL, used by the API to
    reuse encoded SVG and PNG renders while nothing they depend on changed.

Both are safe for concurrent use.

# Usage Example

	grid := cache.NewSpatialHashGrid(50)
	grid.Insert("yose", models.Coordinates{Lon: -119.54, Lat: 37.87}, item)

	if hit, ok := grid.Nearest(pointerCoords, radiusKm); ok {
	    // hit.ID is the marker under the pointer
	}

	frames := cache.NewLRU[[]byte](256, 5*time.Minute)
	frames.Add(key, png)

# Choosing a Cell Size

Cells of roughly the typical hit radius keep a query to a handful of cells.
The surface derives the hit radius from the marker size at the current zoom,
so 50km cells suit a country-scale map of national parks.
*/
package cache
