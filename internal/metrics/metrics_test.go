// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromhttpExposure(t *testing.T) {
	IncPageView()

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "flipbook_page_views_total"))
}

func TestCounters(t *testing.T) {
	tests := []struct {
		name string
		inc  func()
		read func() float64
	}{
		{
			name: "page flip next",
			inc:  func() { IncPageFlip("next") },
			read: func() float64 { return testutil.ToFloat64(pageFlipsTotal.WithLabelValues("next")) },
		},
		{
			name: "autoflip stop at end",
			inc:  func() { IncAutoFlipStop("end") },
			read: func() float64 { return testutil.ToFloat64(autoFlipStops.WithLabelValues("end")) },
		},
		{
			name: "hotspot click",
			inc:  func() { IncHotspotClick("link") },
			read: func() float64 { return testutil.ToFloat64(hotspotClicksTotal.WithLabelValues("link")) },
		},
		{
			name: "document conversion",
			inc:  func() { IncDocumentConversion("markdown", "success") },
			read: func() float64 {
				return testutil.ToFloat64(documentConversions.WithLabelValues("markdown", "success"))
			},
		},
		{
			name: "cache miss",
			inc:  func() { IncDocumentCache(false) },
			read: func() float64 { return testutil.ToFloat64(documentCacheTotal.WithLabelValues("miss")) },
		},
		{
			name: "storage op",
			inc:  func() { RecordStorageOp("memory", "get", "ok", time.Millisecond) },
			read: func() float64 { return testutil.ToFloat64(storageOps.WithLabelValues("memory", "get", "ok")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read()
			tt.inc()
			assert.Equal(t, before+1, tt.read())
		})
	}
}

func TestRecordSessionEnded(t *testing.T) {
	before := testutil.ToFloat64(sessionsTotal.WithLabelValues("ended"))
	RecordSessionEnded(1500)
	assert.Equal(t, before+1, testutil.ToFloat64(sessionsTotal.WithLabelValues("ended")))
}

func TestSetActiveViewers(t *testing.T) {
	SetActiveViewers(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(activeViewers))
	SetActiveViewers(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(activeViewers))
}

func gaugeValue(t *testing.T, family, label, value string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabel(m, label, value) {
				return m.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", family, label, value)
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func TestCircuitBreakerMetrics(t *testing.T) {
	SetCircuitBreakerState("storage.redis", "open")
	assert.Equal(t, 2.0, gaugeValue(t, "flipbook_circuit_breaker_state", "name", "storage.redis"))
	SetCircuitBreakerState("storage.redis", "half-open")
	assert.Equal(t, 1.0, gaugeValue(t, "flipbook_circuit_breaker_state", "name", "storage.redis"))
	SetCircuitBreakerState("storage.redis", "closed")
	assert.Equal(t, 0.0, gaugeValue(t, "flipbook_circuit_breaker_state", "name", "storage.redis"))

	before := testutil.ToFloat64(breakerTrips.WithLabelValues("storage.redis", "threshold_exceeded"))
	RecordCircuitBreakerTrip("storage.redis", "threshold_exceeded")
	assert.Equal(t, before+1, testutil.ToFloat64(breakerTrips.WithLabelValues("storage.redis", "threshold_exceeded")))
}
