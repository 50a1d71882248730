// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/wayfarer/internal/cache"
	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/middleware"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/selection"
	ws "github.com/tomtom215/wayfarer/internal/websocket"
)

// Deps are the collaborators of a Handler.
type Deps struct {
	Config   *config.Config
	Catalog  *catalog.Registry
	Geometry *geometry.Registry
	Store    *selection.Store
	Hub      *ws.Hub
	// Clock drives the timers of every surface the handler builds; nil
	// means the real clock.
	Clock clock.Clock
	// Sessions bounds the lifetime of websocket map sessions; nil means
	// context.Background. Sessions also end when their connection closes.
	Sessions context.Context
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket origin checks
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: health and monitoring endpoints
//   - handlers_maps.go: category, selection and toggle endpoints
//   - handlers_render.go: SVG and PNG renders with the render cache
//   - handlers_websocket.go: live map sessions
type Handler struct {
	config    *config.Config
	catalog   *catalog.Registry
	geometry  *geometry.Registry
	store     *selection.Store
	hub       *ws.Hub
	clock     clock.Clock
	sessions  context.Context
	renders   *cache.LRU[[]byte]
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time

	genMu       sync.Mutex
	generations map[models.Category]uint64
	unsubscribe func()
}

// NewHandler creates the API handler and subscribes it to selection
// changes, which invalidate cached renders of the changed category.
func NewHandler(d Deps) *Handler {
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Sessions == nil {
		d.Sessions = context.Background()
	}
	cacheSize := cfg.Map.RenderCacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}

	h := &Handler{
		config:      cfg,
		catalog:     d.Catalog,
		geometry:    d.Geometry,
		store:       d.Store,
		hub:         d.Hub,
		clock:       d.Clock,
		sessions:    d.Sessions,
		renders:     cache.NewLRU[[]byte](cacheSize, cfg.Map.RenderCacheTTL),
		perfMon:     middleware.NewPerformanceMonitor(1000, time.Second),
		startTime:   time.Now(),
		generations: make(map[models.Category]uint64),
	}
	if h.store != nil {
		h.unsubscribe = h.store.Subscribe(h.onSelectionsChanged)
	}
	return h
}

// Close detaches the handler from the selection store.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// PerformanceMonitor returns the monitor the router mounts.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

func (h *Handler) onSelectionsChanged(c models.Category, _ []models.Selection) {
	h.genMu.Lock()
	h.generations[c]++
	h.genMu.Unlock()
}

// generation counts the selection changes of c; render cache keys embed it.
func (h *Handler) generation(c models.Category) uint64 {
	h.genMu.Lock()
	defer h.genMu.Unlock()
	return h.generations[c]
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on websocket handshakes; allowing an empty
	// one would bypass CORS for scripted clients.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
