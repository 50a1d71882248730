// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package cache

import (
	"math"
	"sync"
	"testing"

	"github.com/tomtom215/wayfarer/internal/models"
)

var (
	yosemite    = models.Coordinates{Lon: -119.5383, Lat: 37.8651}
	kingsCanyon = models.Coordinates{Lon: -118.5658, Lat: 36.8879}
	zion        = models.Coordinates{Lon: -113.0263, Lat: 37.2982}
	denali      = models.Coordinates{Lon: -151.1926, Lat: 63.1148}
)

func newParksGrid() *SpatialHashGrid {
	g := NewSpatialHashGrid(50)
	g.Insert("yose", yosemite, "Yosemite")
	g.Insert("kica", kingsCanyon, "Kings Canyon")
	g.Insert("zion", zion, "Zion")
	g.Insert("dena", denali, "Denali")
	return g
}

func TestSpatialHashGrid_BasicOperations(t *testing.T) {
	t.Parallel()

	g := newParksGrid()
	if g.Size() != 4 {
		t.Errorf("Size() = %d, want 4", g.Size())
	}

	e, ok := g.Get("yose")
	if !ok {
		t.Fatal("Get(yose) not found")
	}
	if math.Abs(e.LatLng.Lat.Degrees()-yosemite.Lat) > 1e-9 {
		t.Errorf("lat = %v, want %v", e.LatLng.Lat.Degrees(), yosemite.Lat)
	}
	if e.Data != "Yosemite" {
		t.Errorf("Data = %v, want Yosemite", e.Data)
	}

	if !g.Remove("dena") || g.Remove("dena") {
		t.Error("Remove(dena) should succeed once")
	}
	if g.Size() != 3 {
		t.Errorf("Size() after remove = %d, want 3", g.Size())
	}
}

func TestSpatialHashGrid_RejectsInvalid(t *testing.T) {
	t.Parallel()

	g := NewSpatialHashGrid(0)
	if g.Insert("bad", models.Coordinates{Lon: 200, Lat: 0}, nil) {
		t.Error("Insert accepted out-of-range longitude")
	}
	if g.Size() != 0 {
		t.Errorf("Size() = %d, want 0", g.Size())
	}
}

func TestSpatialHashGrid_Update(t *testing.T) {
	t.Parallel()

	g := newParksGrid()
	g.Insert("yose", zion, "moved")

	if g.Size() != 4 {
		t.Errorf("Size() = %d after update, want 4", g.Size())
	}
	hits := g.QueryNearby(yosemite, 10)
	if len(hits) != 0 {
		t.Errorf("QueryNearby(old spot) = %d hits, want 0", len(hits))
	}
}

func TestSpatialHashGrid_QueryNearby(t *testing.T) {
	t.Parallel()

	g := newParksGrid()

	tests := []struct {
		name     string
		radiusKm float64
		wantIDs  []string
	}{
		{"tight radius", 5, []string{"yose"}},
		{"reaches kings canyon", 150, []string{"yose", "kica"}},
		{"reaches zion", 650, []string{"yose", "kica", "zion"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hits := g.QueryNearby(yosemite, tt.radiusKm)
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("hits = %d, want %d", len(hits), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if hits[i].ID != id {
					t.Errorf("hits[%d] = %s, want %s (nearest first)", i, hits[i].ID, id)
				}
			}
		})
	}
}

func TestSpatialHashGrid_Nearest(t *testing.T) {
	t.Parallel()

	g := newParksGrid()
	near := models.Coordinates{Lon: -118.7, Lat: 36.9}

	hit, ok := g.Nearest(near, 100)
	if !ok || hit.ID != "kica" {
		t.Fatalf("Nearest = (%s, %v), want kica", hit.ID, ok)
	}
	if hit.DistanceKm <= 0 || hit.DistanceKm > 20 {
		t.Errorf("DistanceKm = %v, want (0, 20]", hit.DistanceKm)
	}

	if _, ok := g.Nearest(models.Coordinates{Lon: 0, Lat: 0}, 100); ok {
		t.Error("Nearest in the Atlantic found a park")
	}
}

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	// Yosemite Valley to Zion is roughly 585km as the crow flies.
	d := DistanceKm(yosemite, zion)
	if d < 550 || d > 620 {
		t.Errorf("DistanceKm = %v, want ~585", d)
	}
}

func TestSpatialHashGrid_Concurrent(t *testing.T) {
	t.Parallel()

	g := NewSpatialHashGrid(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := models.Coordinates{Lon: -120 + float64(i), Lat: 37}
			g.Insert(string(rune('a'+i)), c, i)
			g.QueryNearby(c, 200)
		}(i)
	}
	wg.Wait()

	if g.Size() != 8 {
		t.Errorf("Size() = %d, want 8", g.Size())
	}
	g.Clear()
	if g.Size() != 0 || g.NumCells() != 0 {
		t.Errorf("after Clear: Size=%d NumCells=%d, want 0/0", g.Size(), g.NumCells())
	}
}
