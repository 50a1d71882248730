// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package status turns the domain selection list into constant-time status
// lookups and holds the legend's visibility filter.
package status

import (
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// Index maps item id to status. A nil Index answers unvisited for every id.
type Index struct {
	byID map[string]models.Status
}

// Build indexes list. Soft-deleted records are excluded, and when an id
// appears more than once the last live record wins.
func Build(list []models.Selection) *Index {
	idx := &Index{byID: make(map[string]models.Status, len(list))}
	for i := range list {
		sel := &list[i]
		if sel.ID == "" {
			continue
		}
		if sel.Deleted {
			continue
		}
		st := sel.Status
		if !st.Valid() {
			st = models.StatusUnvisited
		}
		idx.byID[sel.ID] = st
	}
	metrics.RecordStatusIndexBuild()
	return idx
}

// Get returns the status for id, defaulting to unvisited.
func (x *Index) Get(id string) models.Status {
	if x == nil {
		return models.StatusUnvisited
	}
	if st, ok := x.byID[id]; ok {
		return st
	}
	return models.StatusUnvisited
}

// Len returns the number of live records indexed.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byID)
}

// Counts tallies indexed records per status.
func (x *Index) Counts() map[models.Status]int {
	out := make(map[models.Status]int, len(models.AllStatuses))
	if x == nil {
		return out
	}
	for _, st := range x.byID {
		out[st]++
	}
	return out
}

// Memo caches the Index for the most recent selection slice. The cache key
// is the slice identity (backing array and length), not its contents: the
// domain layer hands over a new slice whenever a selection changes.
type Memo struct {
	first  *models.Selection
	length int
	valid  bool
	index  *Index
	builds int
}

// Lookup returns the Index for list, rebuilding only when list is a
// different slice than the previous call.
func (m *Memo) Lookup(list []models.Selection) *Index {
	var first *models.Selection
	if len(list) > 0 {
		first = &list[0]
	}
	if m.valid && first == m.first && len(list) == m.length {
		return m.index
	}
	m.first, m.length, m.valid = first, len(list), true
	m.index = Build(list)
	m.builds++
	return m.index
}

// Builds returns how many times Lookup rebuilt the index.
func (m *Memo) Builds() int { return m.builds }
