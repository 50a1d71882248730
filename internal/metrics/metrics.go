// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the selection map:
// - API endpoint latency and throughput
// - Render pipeline work (background builds, layer reconciles, index rebuilds)
// - Input handling (gesture classification, toggles, tooltip moves, pointer capture)
// - WebSocket map sessions

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Render Pipeline Metrics
	BackgroundBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_background_builds_total",
			Help: "Total number of static background layer builds",
		},
		[]string{"source"},
	)

	LayerLeavesRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_layer_leaves_rendered_total",
			Help: "Total number of marker or region leaves rebuilt during reconcile",
		},
	)

	LayerLeavesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_layer_leaves_skipped_total",
			Help: "Total number of leaves reused because their props were unchanged",
		},
	)

	StatusIndexBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_status_index_builds_total",
			Help: "Total number of status lookup index rebuilds",
		},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "map_render_duration_seconds",
			Help:    "Duration of a full surface render in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"format"}, // "svg", "png", "frame"
	)

	// Input Metrics
	GestureClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_gesture_classifications_total",
			Help: "Total number of completed pointer gestures by outcome",
		},
		[]string{"outcome"}, // "tap", "drag", "leave"
	)

	Toggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_toggles_total",
			Help: "Total number of status toggles forwarded to the domain layer",
		},
		[]string{"category"},
	)

	TooltipMoves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_tooltip_moves_total",
			Help: "Total number of tooltip position writes",
		},
	)

	CaptureReleases = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_pointer_capture_releases_total",
			Help: "Total number of pointer captures released by recovery",
		},
	)

	CaptureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_pointer_capture_failures_total",
			Help: "Total number of swallowed pointer capture query or release failures",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active map sessions",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped",
		},
		[]string{"reason"}, // "throttled", "invalid", "buffer_full"
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackgroundBuild counts one build of the static background for source.
func RecordBackgroundBuild(source string) {
	BackgroundBuilds.WithLabelValues(source).Inc()
}

// RecordLayerReconcile records the outcome of one marker/region layer reconcile.
func RecordLayerReconcile(rendered, skipped int) {
	if rendered > 0 {
		LayerLeavesRendered.Add(float64(rendered))
	}
	if skipped > 0 {
		LayerLeavesSkipped.Add(float64(skipped))
	}
}

// RecordStatusIndexBuild counts a status index rebuild.
func RecordStatusIndexBuild() {
	StatusIndexBuilds.Inc()
}

// RecordRender observes the duration of a surface render in the given format.
func RecordRender(format string, duration time.Duration) {
	RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordGesture counts a classified pointer gesture.
func RecordGesture(outcome string) {
	GestureClassifications.WithLabelValues(outcome).Inc()
}

// RecordToggle counts a toggle forwarded for category.
func RecordToggle(category string) {
	Toggles.WithLabelValues(category).Inc()
}

// RecordTooltipMove counts a tooltip position write.
func RecordTooltipMove() {
	TooltipMoves.Inc()
}

// RecordCaptureRecovery records pointer captures released and failures swallowed.
func RecordCaptureRecovery(released, failures int) {
	if released > 0 {
		CaptureReleases.Add(float64(released))
	}
	if failures > 0 {
		CaptureFailures.Add(float64(failures))
	}
}

// RecordWSDropped counts a dropped WebSocket message.
func RecordWSDropped(reason string) {
	WSDropped.WithLabelValues(reason).Inc()
}
