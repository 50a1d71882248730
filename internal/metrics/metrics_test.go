// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"svg render", "GET", "/api/v1/maps/{category}/render.svg", "200", 12 * time.Millisecond},
		{"toggle", "POST", "/api/v1/maps/{category}/toggle", "200", 3 * time.Millisecond},
		{"unknown category", "GET", "/api/v1/maps/{category}/selections", "404", time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after-before != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", after-before)
			}
		})
	}
}

// TestTrackActiveRequest tests the active request gauge lifecycle
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordBackgroundBuild(t *testing.T) {
	before := testutil.ToFloat64(BackgroundBuilds.WithLabelValues("test-source"))
	RecordBackgroundBuild("test-source")
	RecordBackgroundBuild("test-source")
	if got := testutil.ToFloat64(BackgroundBuilds.WithLabelValues("test-source")) - before; got != 2 {
		t.Errorf("background builds delta = %v, want 2", got)
	}
}

func TestRecordLayerReconcile(t *testing.T) {
	rendered := testutil.ToFloat64(LayerLeavesRendered)
	skipped := testutil.ToFloat64(LayerLeavesSkipped)

	RecordLayerReconcile(3, 47)
	RecordLayerReconcile(0, 0)

	if got := testutil.ToFloat64(LayerLeavesRendered) - rendered; got != 3 {
		t.Errorf("rendered delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(LayerLeavesSkipped) - skipped; got != 47 {
		t.Errorf("skipped delta = %v, want 47", got)
	}
}

func TestRecordCaptureRecovery(t *testing.T) {
	released := testutil.ToFloat64(CaptureReleases)
	failures := testutil.ToFloat64(CaptureFailures)

	RecordCaptureRecovery(2, 1)

	if got := testutil.ToFloat64(CaptureReleases) - released; got != 2 {
		t.Errorf("releases delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(CaptureFailures) - failures; got != 1 {
		t.Errorf("failures delta = %v, want 1", got)
	}
}

func TestInputCounters(t *testing.T) {
	for _, outcome := range []string{"tap", "drag", "leave"} {
		before := testutil.ToFloat64(GestureClassifications.WithLabelValues(outcome))
		RecordGesture(outcome)
		if got := testutil.ToFloat64(GestureClassifications.WithLabelValues(outcome)) - before; got != 1 {
			t.Errorf("gesture %s delta = %v, want 1", outcome, got)
		}
	}

	toggles := testutil.ToFloat64(Toggles.WithLabelValues("states"))
	RecordToggle("states")
	if got := testutil.ToFloat64(Toggles.WithLabelValues("states")) - toggles; got != 1 {
		t.Errorf("toggle delta = %v, want 1", got)
	}

	moves := testutil.ToFloat64(TooltipMoves)
	RecordTooltipMove()
	if got := testutil.ToFloat64(TooltipMoves) - moves; got != 1 {
		t.Errorf("tooltip move delta = %v, want 1", got)
	}

	dropped := testutil.ToFloat64(WSDropped.WithLabelValues("throttled"))
	RecordWSDropped("throttled")
	if got := testutil.ToFloat64(WSDropped.WithLabelValues("throttled")) - dropped; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}

	RecordStatusIndexBuild()
	RecordRender("svg", 2*time.Millisecond)
}

// TestConcurrentMetricRecording verifies helpers are safe under concurrent use
func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(TooltipMoves)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordTooltipMove()
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(TooltipMoves) - before; got != 1000 {
		t.Errorf("tooltip moves delta = %v, want 1000", got)
	}
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		BackgroundBuilds,
		LayerLeavesRendered,
		LayerLeavesSkipped,
		StatusIndexBuilds,
		RenderDuration,
		GestureClassifications,
		Toggles,
		TooltipMoves,
		CaptureReleases,
		CaptureFailures,
		WSConnections,
		WSMessagesSent,
		WSMessagesReceived,
		WSDropped,
		AppInfo,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/v1/maps", "200", 5*time.Millisecond)
	}
}

func BenchmarkRecordLayerReconcile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordLayerReconcile(1, 99)
	}
}
