// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package middleware provides the HTTP middleware shared by the map API.

Key Components:

  - RequestID: request and correlation ids for logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - PerformanceMonitor: sliding-window latency percentiles and render cache
    hit rate per route
  - Compression: gzip for JSON and SVG; PNG and websocket upgrades pass through

All middleware uses the standard func(http.Handler) http.Handler shape, so
it mounts directly on a chi router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
	r.With(middleware.Compression).Get("/api/v1/maps/{category}/render.svg", h.RenderSVG)

Metrics and the performance monitor label requests with the chi route
pattern, so "/api/v1/maps/states/toggle" and "/api/v1/maps/parks/toggle"
share one series.
*/
package middleware
