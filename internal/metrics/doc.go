// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry through promauto at package
init, and callers record through the Record* helpers rather than touching the
collectors directly.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Render Metrics:
  - map_background_builds_total: Static background builds (counter)
    Labels: source
  - map_layer_leaves_rendered_total / map_layer_leaves_skipped_total:
    Leaves rebuilt or reused by the retained marker/region layer (counter)
  - map_status_index_builds_total: Status lookup index rebuilds (counter)
  - map_render_duration_seconds: Full surface render time (histogram)
    Labels: format (svg, png, frame)

Input Metrics:
  - map_gesture_classifications_total: Completed gestures (counter)
    Labels: outcome (tap, drag, leave)
  - map_toggles_total: Toggles forwarded to the domain layer (counter)
    Labels: category
  - map_tooltip_moves_total: Tooltip position writes (counter)
  - map_pointer_capture_releases_total / map_pointer_capture_failures_total:
    Pointer capture recovery outcomes (counter)

WebSocket Metrics:
  - websocket_connections_active: Active map sessions (gauge)
  - websocket_messages_sent_total / websocket_messages_received_total (counter)
  - websocket_messages_dropped_total: Dropped messages (counter)
    Labels: reason (throttled, invalid, buffer_full)

# Usage Example

	start := time.Now()
	svg := renderSVG(m)
	metrics.RecordRender("svg", time.Since(start))

A stable background shows up as map_background_builds_total staying at one
per source while map_layer_leaves_rendered_total grows with each toggle.
*/
package metrics
