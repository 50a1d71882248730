// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/models"
)

const statesGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"postal":"CA","name":"California"},
 "geometry":{"type":"Polygon","coordinates":[[[-124,32],[-114,32],[-114,42],[-124,42],[-124,32]]]}},
{"type":"Feature","properties":{"postal":"NY","name":"New York"},
 "geometry":{"type":"Polygon","coordinates":[[[-80,40],[-72,40],[-72,45],[-80,45],[-80,40]]]}}]}`

const parksJSON = `[
{"id":"yosemite","name":"Yosemite","coordinates":{"lon":-119.5,"lat":37.8}},
{"id":"acadia","name":"Acadia","coordinates":{"lon":-68.2,"lat":44.3}}]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

func TestLoadCategories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	states := writeFile(t, dir, "states.geojson", statesGeoJSON)
	parks := writeFile(t, dir, "parks.json", parksJSON)

	cfg := config.Default()
	cfg.Categories = []config.CategoryConfig{
		{Name: "national-parks", Kind: models.KindMarker, Source: "states", Catalog: parks},
		{Name: "states", Geometry: states, IDProperty: "postal", DrillDown: true, FitCenter: true},
	}

	geo := geometry.NewRegistry()
	cat := catalog.NewRegistry()
	if err := loadCategories(cfg, geo, cat); err != nil {
		t.Fatalf("loadCategories() error = %v", err)
	}

	entries := cat.List()
	if len(entries) != 2 {
		t.Fatalf("registered %d categories, want 2", len(entries))
	}
	tests := []struct {
		category  models.Category
		kind      models.MapKind
		items     int
		drillDown bool
	}{
		{"national-parks", models.KindMarker, 2, false},
		{"states", models.KindRegion, 2, true},
	}
	for _, tt := range tests {
		e, err := cat.Get(tt.category)
		if err != nil {
			t.Errorf("Get(%s) error = %v", tt.category, err)
			continue
		}
		if e.Kind != tt.kind || e.ItemCount != tt.items || e.DrillDown != tt.drillDown || e.SourceID != "states" {
			t.Errorf("%s = %+v, want kind %s with %d items on states", tt.category, e, tt.kind, tt.items)
		}
	}
	statesEntry, _ := cat.Get("states")
	if c := statesEntry.Center; c == nil || math.Abs(c.Lon-(-98)) > 1e-6 || math.Abs(c.Lat-38.5) > 1e-6 {
		t.Errorf("states center = %v, want the geometry center lon -98 lat 38.5", c)
	}
	if parksEntry, _ := cat.Get("national-parks"); parksEntry.Center != nil {
		t.Errorf("national-parks center = %v, want nil without fit_center", parksEntry.Center)
	}
	if got := cat.DrillDownCategories(); len(got) != 1 || got[0] != "states" {
		t.Errorf("DrillDownCategories() = %v, want [states]", got)
	}
}

func TestLoadCategories_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	states := writeFile(t, dir, "states.geojson", statesGeoJSON)

	tests := []struct {
		name string
		cat  config.CategoryConfig
		want string
	}{
		{"missing geometry file", config.CategoryConfig{Name: "states", Geometry: filepath.Join(dir, "nope.geojson")}, "read geometry"},
		{"unknown source", config.CategoryConfig{Name: "parks", Source: "world"}, "parks"},
		{"marker without catalog", config.CategoryConfig{Name: "pins", Kind: models.KindMarker, Geometry: states}, "needs a catalog"},
		{"missing catalog file", config.CategoryConfig{Name: "states", Geometry: states, Catalog: filepath.Join(dir, "nope.json")}, "read catalog"},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Categories = []config.CategoryConfig{tt.cat}
		err := loadCategories(cfg, geometry.NewRegistry(), catalog.NewRegistry())
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: loadCategories() error = %v, want one containing %q", tt.name, err, tt.want)
		}
	}
}
