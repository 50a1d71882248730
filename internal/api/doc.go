// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package api provides the HTTP layer of Wayfarer.

It exposes the configured map categories, their selection lists, toggles,
server-side renders of a map and live websocket map sessions.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers, split by concern across handlers_*.go
  - Response formatting: the APIResponse envelope with request metadata
  - Rate limiting: go-chi/httprate, tuned per endpoint group
  - CORS: go-chi/cors, global so OPTIONS preflights are answered

Endpoints:

	GET  /api/v1/health                          health summary
	GET  /api/v1/health/live                     liveness probe
	GET  /api/v1/health/ready                    readiness probe
	GET  /api/v1/stats                           latency percentiles, render cache
	GET  /api/v1/maps                            categories with status counts
	GET  /api/v1/maps/{category}/selections      selection records
	POST /api/v1/maps/{category}/toggle          {"id", "current"}
	GET  /api/v1/maps/{category}/render.svg      server-side SVG render
	GET  /api/v1/maps/{category}/render.png      server-side PNG render
	GET  /api/v1/maps/{category}/ws              live map session
	GET  /metrics                                Prometheus metrics

Render query parameters are zoom, lon and lat (given together), width,
height and hide, a comma-separated list of statuses to leave out. Renders
are cached in an LRU keyed by format, category, query and a per-category
generation that every selection change bumps, so a toggle never serves a
stale image. Responses carry an ETag and answer If-None-Match with 304.

Response Format:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "count": 3}
	}

Errors use the same envelope:

	{
	  "success": false,
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}},
	  "meta": {...}
	}

Middleware Stack (outermost first):

 1. RequestID: X-Request-ID plus logging correlation ids
 2. RealIP and Recoverer from chi
 3. CORS
 4. PrometheusMetrics and the performance monitor, labeled by route pattern
 5. Per-group rate limits and security headers
 6. gzip for JSON and SVG
*/
package api
