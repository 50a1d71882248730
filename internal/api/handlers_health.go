// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/wayfarer/internal/middleware"
)

// Version is reported by the health endpoint; the build overrides it with
// -ldflags "-X github.com/tomtom215/wayfarer/internal/api.Version=...".
var Version = "dev"

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Categories    int     `json:"categories"`
	Sessions      int     `json:"sessions"`
	HubRunning    bool    `json:"hub_running"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// CacheStats describes the render cache.
type CacheStats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// PerformanceStats is the payload of GET /api/v1/stats.
type PerformanceStats struct {
	Endpoints   []middleware.EndpointStats `json:"endpoints"`
	RenderCache CacheStats                 `json:"render_cache"`
}

// Health handles health check requests. The service is degraded when no
// category is registered or the websocket hub has stopped.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:        "healthy",
		Version:       Version,
		Categories:    h.categoryCount(),
		HubRunning:    h.hubRunning(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		health.Sessions = h.hub.GetClientCount()
	}
	if health.Categories == 0 || !health.HubRunning {
		health.Status = "degraded"
	}
	respondSuccess(w, r, http.StatusOK, health, nil)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, nil)
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.categoryCount() == 0 || !h.hubRunning() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service is not ready", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"ready":      true,
		"categories": h.categoryCount(),
	}, nil)
}

// Stats returns per-endpoint latency percentiles and render cache counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	endpoints := h.GetPerformanceStats()
	count := len(endpoints)
	respondSuccess(w, r, http.StatusOK, PerformanceStats{
		Endpoints:   endpoints,
		RenderCache: h.GetCacheStats(),
	}, &count)
}

// GetCacheStats returns render cache statistics
func (h *Handler) GetCacheStats() CacheStats {
	hits, misses := h.renders.Stats()
	stats := CacheStats{Entries: h.renders.Len(), Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// GetPerformanceStats returns performance monitoring statistics
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return []middleware.EndpointStats{}
}

func (h *Handler) categoryCount() int {
	if h.catalog == nil {
		return 0
	}
	return len(h.catalog.List())
}

func (h *Handler) hubRunning() bool {
	if h.hub == nil {
		return false
	}
	select {
	case <-h.hub.Done():
		return false
	default:
		return true
	}
}
