// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/selection"
	ws "github.com/tomtom215/wayfarer/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

const statesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "CA", "properties": {"name": "California"},
     "geometry": {"type": "Polygon", "coordinates": [[[-124,32],[-114,32],[-114,42],[-124,42],[-124,32]]]}},
    {"type": "Feature", "id": "NY", "properties": {"name": "New York"},
     "geometry": {"type": "Polygon", "coordinates": [[[-80,40],[-72,40],[-72,45],[-80,45],[-80,40]]]}}
  ]
}`

const parksJSON = `[
  {"id": "yosemite", "name": "Yosemite", "coordinates": {"lon": -119.5, "lat": 37.8}},
  {"id": "acadia", "name": "Acadia", "coordinates": {"lon": -68.2, "lat": 44.3}}
]`

const allowedOrigin = "https://maps.example.com"

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	cfg     *config.Config
	clk     *clock.Fake
	store   *selection.Store
	hub     *ws.Hub
	handler *Handler
	router  http.Handler
}

// newFixture serves a region category "states" and a drill-down marker
// category "national-parks" drawn over the same geometry.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Map.CenterLon, cfg.Map.CenterLat, cfg.Map.InitialZoom = -100, 38, 4
	cfg.Security.CORSOrigins = []string{allowedOrigin}
	cfg.Security.RateLimitDisabled = true

	src, err := geometry.Parse("states", []byte(statesGeoJSON))
	if err != nil {
		t.Fatalf("geometry.Parse: %v", err)
	}
	geo := geometry.NewRegistry()
	geo.Add(src)

	cat := catalog.NewRegistry()
	regions, err := catalog.FromSource(src)
	if err != nil {
		t.Fatalf("catalog.FromSource: %v", err)
	}
	parks, err := catalog.Parse([]byte(parksJSON))
	if err != nil {
		t.Fatalf("catalog.Parse: %v", err)
	}
	for _, e := range []catalog.Entry{
		{Category: "states", Kind: models.KindRegion, SourceID: "states", Items: regions},
		{Category: "national-parks", Kind: models.KindMarker, SourceID: "states", DrillDown: true, Items: parks},
	} {
		if err := cat.Register(e); err != nil {
			t.Fatalf("Register(%s): %v", e.Category, err)
		}
	}

	clk := clock.NewFake(epoch)
	store := selection.NewStore(clk, models.DefaultCycle)

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	store.Subscribe(hub.BroadcastSelections)

	h := NewHandler(Deps{
		Config:   cfg,
		Catalog:  cat,
		Geometry: geo,
		Store:    store,
		Hub:      hub,
		Clock:    clk,
		Sessions: ctx,
	})
	t.Cleanup(h.Close)

	chiMW := NewChiMiddlewareFromSecurity(cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)

	return &fixture{
		cfg:     cfg,
		clk:     clk,
		store:   store,
		hub:     hub,
		handler: h,
		router:  NewRouter(h, chiMW).SetupChi(),
	}
}

func (f *fixture) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// envelope decodes an APIResponse with a typed payload.
type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
	Meta    *APIMeta  `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Unmarshal %q: %v", w.Body.String(), err)
	}
	return env
}
