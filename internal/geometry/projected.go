// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package geometry

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Region is a feature projected onto the unit plane.
type Region struct {
	ID      string
	Name    string
	Polygon orb.MultiPolygon
	Bound   orb.Bound
}

// Projected holds every region of a source in unit-plane coordinates.
type Projected struct {
	SourceID string
	Regions  []Region
	byID     map[string]int
}

// Project converts src to the unit plane.
func Project(src *Source) *Projected {
	p := &Projected{
		SourceID: src.ID,
		Regions:  make([]Region, 0, len(src.Features)),
		byID:     make(map[string]int, len(src.Features)),
	}
	for _, f := range src.Features {
		mp := projectMultiPolygon(f.Geometry)
		p.byID[f.ID] = len(p.Regions)
		p.Regions = append(p.Regions, Region{ID: f.ID, Name: f.Name, Polygon: mp, Bound: mp.Bound()})
	}
	return p
}

// RegionAt returns the topmost region containing the unit-plane point.
// Regions drawn later are on top, so the search runs back to front.
func (p *Projected) RegionAt(pt orb.Point) (Region, bool) {
	for i := len(p.Regions) - 1; i >= 0; i-- {
		r := p.Regions[i]
		if !r.Bound.Contains(pt) {
			continue
		}
		if planar.MultiPolygonContains(r.Polygon, pt) {
			return r, true
		}
	}
	return Region{}, false
}

// Region returns the region with id.
func (p *Projected) Region(id string) (Region, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Region{}, false
	}
	return p.Regions[i], true
}

// Registry holds loaded sources and caches their projections by source id.
// Safe for concurrent use: HTTP renders and websocket sessions share it.
type Registry struct {
	mu        sync.RWMutex
	sources   map[string]*Source
	projected map[string]*Projected
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Source), projected: make(map[string]*Projected)}
}

// Add registers src, replacing any source with the same id.
func (r *Registry) Add(src *Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.ID] = src
	delete(r.projected, src.ID)
}

// Source returns the registered source with id.
func (r *Registry) Source(id string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	return src, nil
}

// Projected returns the cached projection of source id, building it once.
func (r *Registry) Projected(id string) (*Projected, error) {
	r.mu.RLock()
	p, ok := r.projected[id]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projected[id]; ok {
		return p, nil
	}
	src, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	p = Project(src)
	r.projected[id] = p
	return p, nil
}

// IDs returns the registered source ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	return ids
}
