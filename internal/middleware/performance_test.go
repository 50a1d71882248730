// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		maxMetrics int
		threshold  time.Duration
		wantMax    int
		wantSlow   time.Duration
	}{
		{"explicit", 10, 250 * time.Millisecond, 10, 250 * time.Millisecond},
		{"defaults", 0, 0, 1000, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pm := NewPerformanceMonitor(tt.maxMetrics, tt.threshold)
			if pm.maxMetrics != tt.wantMax {
				t.Errorf("maxMetrics = %d, want %d", pm.maxMetrics, tt.wantMax)
			}
			if pm.slowThreshold != tt.wantSlow {
				t.Errorf("slowThreshold = %v, want %v", pm.slowThreshold, tt.wantSlow)
			}
		})
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0)
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Path: "/api/v1/maps", Method: "GET", DurationMS: i})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("len(GetRecentMetrics) = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("window = %d..%d, want 3..5", recent[0].DurationMS, recent[2].DurationMS)
	}
	if stats := pm.GetStats(); len(stats) != 1 || stats[0].RequestCount != 3 {
		t.Errorf("GetStats() = %+v, want one endpoint with 3 requests in the window", stats)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0)
	for _, d := range []int64{40, 10, 30, 20} {
		pm.RecordRequest(&RequestMetrics{Path: "/render.svg", Method: "GET", DurationMS: d, CacheHit: d < 25})
	}
	pm.RecordRequest(&RequestMetrics{Path: "/toggle", Method: "POST", DurationMS: 5})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(GetStats) = %d, want 2", len(stats))
	}
	render := stats[0]
	if render.Method != "GET" || render.Path != "/render.svg" {
		t.Fatalf("busiest = %s %s, want GET /render.svg", render.Method, render.Path)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"RequestCount", float64(render.RequestCount), 4},
		{"AvgDuration", render.AvgDuration, 25},
		{"MinDuration", float64(render.MinDuration), 10},
		{"MaxDuration", float64(render.MaxDuration), 40},
		{"P50Duration", float64(render.P50Duration), 20},
		{"CacheHitRate", render.CacheHitRate, 0.5},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestPerformanceMonitor_GetStatsSplitsMethods(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0)
	pm.RecordRequest(&RequestMetrics{Path: "/api/v1/maps/{category}/toggle", Method: "POST", DurationMS: 3})
	pm.RecordRequest(&RequestMetrics{Path: "/api/v1/maps/{category}/toggle", Method: "POST", DurationMS: 4})
	pm.RecordRequest(&RequestMetrics{Path: "/api/v1/maps/{category}/toggle", Method: "OPTIONS", DurationMS: 1})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(GetStats) = %d, want 2", len(stats))
	}
	tests := []struct {
		method string
		count  int64
	}{
		{"POST", 2},
		{"OPTIONS", 1},
	}
	for i, tt := range tests {
		if stats[i].Method != tt.method || stats[i].Path != "/api/v1/maps/{category}/toggle" || stats[i].RequestCount != tt.count {
			t.Errorf("stats[%d] = %s %s x%d, want %s on the toggle pattern x%d",
				i, stats[i].Method, stats[i].Path, stats[i].RequestCount, tt.method, tt.count)
		}
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, 0)
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/maps/{category}/render.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(CacheStatusHeader, "HIT")
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/maps/states/render.svg", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(recent))
	}
	m := recent[0]
	if m.Path != "/api/v1/maps/{category}/render.svg" || !m.CacheHit || m.StatusCode != http.StatusOK {
		t.Errorf("metric = %+v, want route pattern, cache hit, 200", m)
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	sorted := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want int64
	}{
		{0, 1},
		{0.5, 5},
		{0.95, 9},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %d, want 0", got)
	}
}
