// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package geometry

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Two adjacent boxes standing in for states, plus a line feature that must be ignored.
const statesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"postal": "CA", "name": "California"},
     "geometry": {"type": "Polygon", "coordinates": [[[-124,32],[-114,32],[-114,42],[-124,42],[-124,32]]]}},
    {"type": "Feature", "id": "NV", "properties": {"name": "Nevada"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[-114,35],[-110,35],[-110,42],[-114,42],[-114,35]]]]}},
    {"type": "Feature", "properties": {"name": "Route 66"},
     "geometry": {"type": "LineString", "coordinates": [[-118,34],[-90,38]]}}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(src.Features) != 2 {
		t.Fatalf("features = %d, want 2 (line dropped)", len(src.Features))
	}
	if src.Features[0].ID != "CA" || src.Features[0].Name != "California" {
		t.Errorf("feature 0 = %s/%s, want CA/California", src.Features[0].ID, src.Features[0].Name)
	}
	if src.Features[1].ID != "NV" {
		t.Errorf("feature 1 id = %s, want NV from top-level id", src.Features[1].ID)
	}
	if _, ok := src.Feature("NV"); !ok {
		t.Error("Feature(NV) not found")
	}
}

func TestParse_CustomIDProperty(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON), "name")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Features[0].ID != "California" {
		t.Errorf("id = %s, want California", src.Features[0].ID)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Parse("bad", []byte(`{not json`)); err == nil {
		t.Error("Parse(invalid json) = nil error")
	}
	empty := `{"type":"FeatureCollection","features":[]}`
	if _, err := Parse("empty", []byte(empty)); !errors.Is(err, ErrNoFeatures) {
		t.Errorf("Parse(empty) = %v, want ErrNoFeatures", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "states.geojson")
	if err := os.WriteFile(path, []byte(statesGeoJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	src, err := LoadFile("us-states", path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.ID != "us-states" {
		t.Errorf("ID = %s, want us-states", src.ID)
	}
	if _, err := LoadFile("missing", filepath.Join(t.TempDir(), "nope.geojson")); err == nil {
		t.Error("LoadFile(missing) = nil error")
	}
}

func TestProjectUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		c      models.Coordinates
		wantX  float64
		wantY  float64
		approx float64
	}{
		{"origin is center", models.Coordinates{Lon: 0, Lat: 0}, 0.5, 0.5, 1e-9},
		{"antimeridian west edge", models.Coordinates{Lon: -180, Lat: 0}, 0, 0.5, 1e-9},
		{"north limit is top", models.Coordinates{Lon: 0, Lat: MaxLatitude}, 0.5, 0, 1e-6},
		{"pole clamped to limit", models.Coordinates{Lon: 0, Lat: 90}, 0.5, 0, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := ProjectUnit(tt.c)
			if math.Abs(p.X()-tt.wantX) > tt.approx || math.Abs(p.Y()-tt.wantY) > tt.approx {
				t.Errorf("ProjectUnit(%+v) = %v, want (%v, %v)", tt.c, p, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestUnprojectUnit_RoundTrip(t *testing.T) {
	t.Parallel()

	yosemite := models.Coordinates{Lon: -119.5383, Lat: 37.8651}
	got := UnprojectUnit(ProjectUnit(yosemite))
	if math.Abs(got.Lon-yosemite.Lon) > 1e-6 || math.Abs(got.Lat-yosemite.Lat) > 1e-6 {
		t.Errorf("round trip = %+v, want %+v", got, yosemite)
	}
}

func TestProjected_RegionAt(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	p := Project(src)

	tests := []struct {
		name string
		at   models.Coordinates
		want string
		ok   bool
	}{
		{"sacramento", models.Coordinates{Lon: -121.5, Lat: 38.6}, "CA", true},
		{"reno-ish", models.Coordinates{Lon: -112, Lat: 39.5}, "NV", true},
		{"pacific", models.Coordinates{Lon: -130, Lat: 38}, "", false},
	}

	for _, tt := range tests {
		r, ok := p.RegionAt(ProjectUnit(tt.at))
		if ok != tt.ok || r.ID != tt.want {
			t.Errorf("%s: RegionAt = (%q, %v), want (%q, %v)", tt.name, r.ID, ok, tt.want, tt.ok)
		}
	}
}

func TestRegistry_ProjectedCached(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	reg.Add(src)

	a, err := reg.Projected("us-states")
	if err != nil {
		t.Fatalf("Projected: %v", err)
	}
	b, _ := reg.Projected("us-states")
	if a != b {
		t.Error("projection rebuilt for the same source id")
	}

	if _, err := reg.Projected("world"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Projected(world) = %v, want ErrUnknownSource", err)
	}
	if _, err := reg.Source("world"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Source(world) = %v, want ErrUnknownSource", err)
	}
}

func TestSource_Bound(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	center := src.Bound().Center()
	if math.Abs(center.Lng.Degrees()-(-117)) > 1e-6 || math.Abs(center.Lat.Degrees()-37) > 1e-6 {
		t.Errorf("Bound().Center() = %v, want (37, -117)", center)
	}
}

func TestSource_Center(t *testing.T) {
	t.Parallel()

	src, err := Parse("us-states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	got := src.Center()
	if math.Abs(got.Lon-(-117)) > 1e-6 || math.Abs(got.Lat-37) > 1e-6 {
		t.Errorf("Center() = %+v, want lon -117 lat 37", got)
	}
	if !got.Valid() {
		t.Errorf("Center() = %+v, want valid coordinates", got)
	}
}
