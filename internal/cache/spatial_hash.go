// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package cache

import (
	"math"
	"sort"
	"sync"

	"github.com/golang/geo/s2"

	"github.com/tomtom215/wayfarer/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// kmPerDegree is the approximate length of one degree of latitude.
const kmPerDegree = 111.0

// SpatialHashGrid buckets marker locations into fixed-size lat/lon cells so a
// pointer position can be resolved to nearby markers by scanning only the
// surrounding cells.
//
// Time Complexity:
//   - Insert / Remove: O(1)
//   - QueryNearby / Nearest: O(k), k = entries in the scanned cells
type SpatialHashGrid struct {
	mu       sync.RWMutex
	cells    map[CellKey]*Cell
	cellSize float64 // degrees
	entries  map[string]*SpatialEntry
}

// CellKey is a grid cell coordinate.
type CellKey struct {
	X, Y int
}

// Cell holds the entries that fall inside one grid cell.
type Cell struct {
	entries []*SpatialEntry
}

// SpatialEntry is one indexed marker.
type SpatialEntry struct {
	ID      string
	LatLng  s2.LatLng
	Data    any
	cellKey CellKey
}

// Hit is a query result with its distance from the query point.
type Hit struct {
	SpatialEntry
	DistanceKm float64
}

// NewSpatialHashGrid creates a grid with roughly cellSizeKm-wide cells
// (default 50km).
func NewSpatialHashGrid(cellSizeKm float64) *SpatialHashGrid {
	if !(cellSizeKm > 0) {
		cellSizeKm = 50
	}
	return &SpatialHashGrid{
		cells:    make(map[CellKey]*Cell),
		cellSize: cellSizeKm / kmPerDegree,
		entries:  make(map[string]*SpatialEntry),
	}
}

func (g *SpatialHashGrid) cellKey(ll s2.LatLng) CellKey {
	return CellKey{
		X: int(math.Floor(ll.Lng.Degrees() / g.cellSize)),
		Y: int(math.Floor(ll.Lat.Degrees() / g.cellSize)),
	}
}

// Insert adds or moves the entry for id. Invalid coordinates are rejected.
func (g *SpatialHashGrid) Insert(id string, c models.Coordinates, data any) bool {
	if !c.Valid() {
		return false
	}
	ll := s2.LatLngFromDegrees(c.Lat, c.Lon).Normalized()

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[id]; ok {
		g.removeFromCellUnlocked(existing)
	}

	entry := &SpatialEntry{ID: id, LatLng: ll, Data: data, cellKey: g.cellKey(ll)}
	cell, ok := g.cells[entry.cellKey]
	if !ok {
		cell = &Cell{entries: make([]*SpatialEntry, 0, 4)}
		g.cells[entry.cellKey] = cell
	}
	cell.entries = append(cell.entries, entry)
	g.entries[id] = entry
	return true
}

// Remove deletes the entry for id.
func (g *SpatialHashGrid) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCellUnlocked(entry)
	delete(g.entries, id)
	return true
}

// removeFromCellUnlocked must be called with mu held.
func (g *SpatialHashGrid) removeFromCellUnlocked(entry *SpatialEntry) {
	cell, ok := g.cells[entry.cellKey]
	if !ok {
		return
	}
	for i, e := range cell.entries {
		if e.ID == entry.ID {
			cell.entries[i] = cell.entries[len(cell.entries)-1]
			cell.entries = cell.entries[:len(cell.entries)-1]
			break
		}
	}
	if len(cell.entries) == 0 {
		delete(g.cells, entry.cellKey)
	}
}

// Get returns a copy of the entry for id.
func (g *SpatialHashGrid) Get(id string) (SpatialEntry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.entries[id]
	if !ok {
		return SpatialEntry{}, false
	}
	return *entry, true
}

// QueryNearby returns every entry within radiusKm of c, nearest first.
// Ties keep id order so results are stable.
func (g *SpatialHashGrid) QueryNearby(c models.Coordinates, radiusKm float64) []Hit {
	if !c.Valid() || !(radiusKm >= 0) {
		return nil
	}
	center := s2.LatLngFromDegrees(c.Lat, c.Lon).Normalized()

	g.mu.RLock()
	defer g.mu.RUnlock()

	span := int(math.Ceil(radiusKm/kmPerDegree/g.cellSize)) + 1
	// Longitude degrees shrink towards the poles; widen the scan accordingly.
	lngSpan := span
	if cos := math.Cos(center.Lat.Radians()); cos > 0.01 {
		lngSpan = int(math.Ceil(float64(span)/cos)) + 1
	}
	base := g.cellKey(center)

	var hits []Hit
	for dx := -lngSpan; dx <= lngSpan; dx++ {
		for dy := -span; dy <= span; dy++ {
			cell, ok := g.cells[CellKey{X: base.X + dx, Y: base.Y + dy}]
			if !ok {
				continue
			}
			for _, e := range cell.entries {
				d := center.Distance(e.LatLng).Radians() * EarthRadiusKm
				if d <= radiusKm {
					hits = append(hits, Hit{SpatialEntry: *e, DistanceKm: d})
				}
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm == hits[j].DistanceKm {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].DistanceKm < hits[j].DistanceKm
	})
	return hits
}

// Nearest returns the closest entry within radiusKm of c.
func (g *SpatialHashGrid) Nearest(c models.Coordinates, radiusKm float64) (Hit, bool) {
	hits := g.QueryNearby(c, radiusKm)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Size returns the number of entries.
func (g *SpatialHashGrid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// NumCells returns the number of non-empty cells.
func (g *SpatialHashGrid) NumCells() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Clear removes all entries.
func (g *SpatialHashGrid) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells = make(map[CellKey]*Cell)
	g.entries = make(map[string]*SpatialEntry)
}

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b models.Coordinates) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * EarthRadiusKm
}
