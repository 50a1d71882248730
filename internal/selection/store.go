// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package selection is the in-memory domain store behind the toggle
// callback. Each category holds a copy-on-write selection slice: every change
// publishes a new slice, so downstream caches keyed by slice identity
// rebuild exactly once per change.
package selection

import (
	"sort"
	"sync"

	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// Listener receives the new selection list of a category after a change.
type Listener func(category models.Category, list []models.Selection)

// Store holds selection lists per category. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	clk       clock.Clock
	cycle     models.CyclePolicy
	lists     map[models.Category][]models.Selection
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store. A nil cycle uses models.DefaultCycle.
func NewStore(clk clock.Clock, cycle models.CyclePolicy) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	if cycle == nil {
		cycle = models.DefaultCycle
	}
	return &Store{
		clk:       clk,
		cycle:     cycle,
		lists:     make(map[models.Category][]models.Selection),
		listeners: make(map[int]Listener),
	}
}

// List returns the current list for c. The slice must not be modified; it
// stays identical until the next change to c.
func (s *Store) List(c models.Category) []models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists[c]
}

// Replace sets the whole list for c.
func (s *Store) Replace(c models.Category, list []models.Selection) {
	next := append([]models.Selection(nil), list...)
	s.mu.Lock()
	s.lists[c] = next
	s.mu.Unlock()
	s.notify(c, next)
}

// Toggle advances id from current by the cycle policy and returns the new
// record. Moving back to unvisited soft-deletes the record.
func (s *Store) Toggle(c models.Category, id string, current models.Status) models.Selection {
	return s.Set(c, id, s.cycle(current))
}

// Set records st for id in c.
func (s *Store) Set(c models.Category, id string, st models.Status) models.Selection {
	if !st.Valid() {
		st = models.StatusUnvisited
	}
	rec := models.Selection{
		ID:        id,
		Status:    st,
		Deleted:   st == models.StatusUnvisited,
		UpdatedAt: s.clk.Now(),
	}

	s.mu.Lock()
	prev := s.lists[c]
	next := make([]models.Selection, 0, len(prev)+1)
	replaced := false
	for _, r := range prev {
		if r.ID == id {
			if !replaced {
				next = append(next, rec)
				replaced = true
			}
			continue
		}
		next = append(next, r)
	}
	if !replaced {
		next = append(next, rec)
	}
	s.lists[c] = next
	s.mu.Unlock()

	logging.Debug().Str("category", string(c)).Str("item", id).Str("status", st.String()).Msg("selection updated")
	s.notify(c, next)
	return rec
}

// Categories returns the categories that have a list, sorted.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.lists))
	for c := range s.lists {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subscribe registers fn for every change and returns a function removing it.
// Listeners run on the goroutine that made the change, outside the lock.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(c models.Category, list []models.Selection) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c, list)
	}
}
