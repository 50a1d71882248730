// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

var (
	// ErrEmpty is returned for a catalog without a single usable item.
	ErrEmpty = errors.New("catalog: no items")

	// ErrUnknownCategory is returned for a category that is not registered.
	ErrUnknownCategory = errors.New("catalog: unknown category")
)

// Parse decodes item metadata. Items without an id are dropped; duplicate
// ids keep the first entry; invalid coordinates are cleared so the item
// stays selectable without a marker.
func Parse(data []byte) ([]models.Item, error) {
	var raw []models.Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]models.Item, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	dropped := 0
	for _, it := range raw {
		if it.ID == "" || seen[it.ID] {
			dropped++
			continue
		}
		seen[it.ID] = true
		if it.Coordinates != nil && !it.Coordinates.Valid() {
			it.Coordinates = nil
		}
		items = append(items, it)
	}
	if dropped > 0 {
		logging.Debug().Int("dropped", dropped).Msg("catalog entries without id or duplicated")
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// Load reads and parses a catalog file.
func Load(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return items, nil
}

// FromSource derives a catalog from the regions of a geometry source.
// Region categories use it when no catalog file is configured.
func FromSource(src *geometry.Source) ([]models.Item, error) {
	items := make([]models.Item, 0, len(src.Features))
	for _, f := range src.Features {
		items = append(items, models.Item{ID: f.ID, Name: f.Name})
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// Entry describes one selectable category.
type Entry struct {
	Category models.Category `json:"category"`
	Kind     models.MapKind  `json:"kind"`
	// SourceID names the geometry source drawn under the items.
	SourceID string `json:"source"`
	// DrillDown enables the background region callback.
	DrillDown bool `json:"drill_down"`
	// Center overrides the configured initial camera center when set.
	Center    *models.Coordinates `json:"center,omitempty"`
	Items     []models.Item       `json:"-"`
	ItemCount int                 `json:"items"`
}

// Registry maps categories to their entries. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[models.Category]*Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[models.Category]*Entry)}
}

// Register adds or replaces e.
func (r *Registry) Register(e Entry) error {
	if e.Category == "" {
		return fmt.Errorf("register: empty category")
	}
	if len(e.Items) == 0 {
		return fmt.Errorf("register %s: %w", e.Category, ErrEmpty)
	}
	if e.Kind == "" {
		e.Kind = models.KindRegion
	}
	e.ItemCount = len(e.Items)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Category] = &e
	return nil
}

// Get returns the entry for c.
func (r *Registry) Get(c models.Category) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[c]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	return *e, nil
}

// List returns every entry sorted by category.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// DrillDownCategories returns the categories with region drill-down enabled.
func (r *Registry) DrillDownCategories() []models.Category {
	var out []models.Category
	for _, e := range r.List() {
		if e.DrillDown {
			out = append(out, e.Category)
		}
	}
	return out
}
