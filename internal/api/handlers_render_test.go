// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/wayfarer/internal/middleware"
	"github.com/tomtom215/wayfarer/internal/models"
)

func TestRenderSVG_CacheAndInvalidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	const path = "/api/v1/maps/states/render.svg"

	first := f.do(t, http.MethodGet, path, "")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if got := first.Header().Get(middleware.CacheStatusHeader); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	if !strings.Contains(first.Body.String(), `id="CA" class="region unvisited"`) {
		t.Errorf("first render has no unvisited CA region:\n%s", first.Body.String())
	}

	second := f.do(t, http.MethodGet, path, "")
	if got := second.Header().Get(middleware.CacheStatusHeader); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	etag := first.Header().Get("ETag")
	if etag == "" || second.Header().Get("ETag") != etag {
		t.Errorf("ETag = %q then %q, want equal and non-empty", etag, second.Header().Get("ETag"))
	}

	notModified := f.do(t, http.MethodGet, path, "", "If-None-Match", etag)
	if notModified.Code != http.StatusNotModified || notModified.Body.Len() != 0 {
		t.Errorf("conditional status = %d with %d bytes, want 304 and empty", notModified.Code, notModified.Body.Len())
	}

	if w := f.do(t, http.MethodPost, "/api/v1/maps/states/toggle", `{"id":"CA"}`); w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", w.Code)
	}
	after := f.do(t, http.MethodGet, path, "", "If-None-Match", etag)
	if after.Code != http.StatusOK {
		t.Fatalf("status after toggle = %d, want 200", after.Code)
	}
	if got := after.Header().Get(middleware.CacheStatusHeader); got != "MISS" {
		t.Errorf("X-Cache after toggle = %q, want MISS", got)
	}
	if !strings.Contains(after.Body.String(), `id="CA" class="region visited"`) {
		t.Errorf("render after toggle has no visited CA region:\n%s", after.Body.String())
	}
}

func TestRenderSVG_QueryVariantsAreCachedSeparately(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	paths := []string{
		"/api/v1/maps/states/render.svg",
		"/api/v1/maps/states/render.svg?zoom=2",
		"/api/v1/maps/states/render.svg?hide=visited",
		"/api/v1/maps/states/render.svg?width=400&height=300",
		"/api/v1/maps/national-parks/render.svg",
	}
	for _, p := range paths {
		w := f.do(t, http.MethodGet, p, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", p, w.Code)
			continue
		}
		if got := w.Header().Get(middleware.CacheStatusHeader); got != "MISS" {
			t.Errorf("%s: X-Cache = %q, want MISS", p, got)
		}
	}

	// The hide list is normalized: order and duplicates do not matter.
	f.do(t, http.MethodGet, "/api/v1/maps/states/render.svg?hide=visited,bucketList", "")
	w := f.do(t, http.MethodGet, "/api/v1/maps/states/render.svg?hide=bucketList,visited,visited", "")
	if got := w.Header().Get(middleware.CacheStatusHeader); got != "HIT" {
		t.Errorf("reordered hide X-Cache = %q, want HIT", got)
	}

	sized := f.do(t, http.MethodGet, "/api/v1/maps/states/render.svg?width=400&height=300", "")
	if !strings.Contains(sized.Body.String(), `viewBox="0 0 400 300"`) {
		t.Errorf("sized render lacks the requested viewBox:\n%s", sized.Body.String())
	}
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/maps/national-parks/render.png?width=200&height=120", "", "Accept-Encoding", "gzip")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if enc := w.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q, want none for PNG", enc)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("body is not a PNG")
	}
}

func TestRender_InvalidQuery(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"zoom not a number", "zoom=abc", ErrCodeBadRequest},
		{"zoom NaN", "zoom=NaN", ErrCodeBadRequest},
		{"lon without lat", "lon=10", ErrCodeBadRequest},
		{"width not an integer", "width=wide", ErrCodeBadRequest},
		{"latitude off the globe", "lon=0&lat=95", ErrCodeValidation},
		{"negative zoom", "zoom=-1", ErrCodeValidation},
		{"tiny width", "width=10", ErrCodeValidation},
		{"unknown status", "hide=someday", ErrCodeValidation},
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodGet, "/api/v1/maps/states/render.svg?"+tt.query, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, w.Code)
			continue
		}
		if env := decode[any](t, w); env.Error == nil || env.Error.Code != tt.wantCode {
			t.Errorf("%s: error = %+v, want %s", tt.name, env.Error, tt.wantCode)
		}
	}

	if w := f.do(t, http.MethodGet, "/api/v1/maps/lakes/render.png", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown category status = %d, want 404", w.Code)
	}
}

func TestRenderRequest_CacheKey(t *testing.T) {
	t.Parallel()

	zoom := 2.5
	a := RenderRequest{Zoom: &zoom, Width: 400, Hide: parseStatuses("bucketList, visited")}
	b := RenderRequest{Zoom: &zoom, Width: 400, Hide: parseStatuses("visited,bucketList")}
	if a.cacheKey() != b.cacheKey() {
		t.Errorf("cacheKey() = %q and %q, want equal", a.cacheKey(), b.cacheKey())
	}
	if c := (RenderRequest{Width: 400}); c.cacheKey() == a.cacheKey() {
		t.Errorf("cacheKey() ignores zoom: %q", c.cacheKey())
	}
}

func TestSurfaceConfig_InitialCamera(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	fitted := models.Coordinates{Lon: -98, Lat: 38.5}
	lon, lat, zoom := -70.0, 44.0, 6.0

	tests := []struct {
		name   string
		center *models.Coordinates
		req    RenderRequest
		want   models.Coordinates
		zoom   float64
	}{
		{"configured center", nil, RenderRequest{}, models.Coordinates{Lon: -100, Lat: 38}, 4},
		{"fitted category center", &fitted, RenderRequest{}, fitted, 4},
		{"request overrides fitted center", &fitted, RenderRequest{Lon: &lon, Lat: &lat, Zoom: &zoom}, models.Coordinates{Lon: lon, Lat: lat}, zoom},
	}
	for _, tt := range tests {
		entry, err := f.handler.catalog.Get("states")
		if err != nil {
			t.Fatalf("Get(states): %v", err)
		}
		entry.Center = tt.center
		_, opts, err := f.handler.surfaceConfig(entry, tt.req)
		if err != nil {
			t.Fatalf("%s: surfaceConfig() error = %v", tt.name, err)
		}
		if opts.Initial.Center != tt.want || opts.Initial.Zoom != tt.zoom {
			t.Errorf("%s: initial = %+v, want center %+v zoom %v", tt.name, opts.Initial, tt.want, tt.zoom)
		}
	}
}
