// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Navigation metrics
	pageFlipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_page_flips_total",
		Help: "Cursor moves by direction",
	}, []string{"direction"}) // direction=next|prev|jump

	spreadModeToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flipbook_spread_mode_toggles_total",
		Help: "Total number of single/double spread mode changes",
	})

	autoFlipTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flipbook_autoflip_ticks_total",
		Help: "Auto-flip ticks that advanced the cursor",
	})

	autoFlipStops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_autoflip_stops_total",
		Help: "Auto-flip stops by reason",
	}, []string{"reason"}) // reason=user|end|closed

	activeViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flipbook_active_viewers",
		Help: "Number of viewer sessions currently held in memory",
	})

	// Analytics metrics
	pageViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flipbook_page_views_total",
		Help: "Total number of page views recorded",
	})

	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_reading_sessions_total",
		Help: "Reading session lifecycle events",
	}, []string{"event"}) // event=started|ended|overwritten

	sessionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flipbook_reading_session_duration_seconds",
		Help:    "Length of completed reading sessions",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	})

	// Hotspot metrics
	hotspotClicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_hotspot_clicks_total",
		Help: "Hotspot activations by action type",
	}, []string{"action"})

	hotspotImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_hotspot_imports_total",
		Help: "Hotspot configuration imports by outcome",
	}, []string{"outcome"}) // outcome=success|rejected
)

func IncPageFlip(direction string) { pageFlipsTotal.WithLabelValues(direction).Inc() }
func IncSpreadModeToggle()         { spreadModeToggles.Inc() }
func IncAutoFlipTick()             { autoFlipTicks.Inc() }
func IncAutoFlipStop(reason string) {
	autoFlipStops.WithLabelValues(reason).Inc()
}
func SetActiveViewers(n int) { activeViewers.Set(float64(n)) }

func IncPageView() { pageViewsTotal.Inc() }

func IncSessionStarted()     { sessionsTotal.WithLabelValues("started").Inc() }
func IncSessionOverwritten() { sessionsTotal.WithLabelValues("overwritten").Inc() }

// RecordSessionEnded counts a completed session and observes its length.
func RecordSessionEnded(durationMs int64) {
	sessionsTotal.WithLabelValues("ended").Inc()
	sessionDurationSeconds.Observe(float64(durationMs) / 1000)
}

func IncHotspotClick(action string) { hotspotClicksTotal.WithLabelValues(action).Inc() }
func IncHotspotImport(outcome string) {
	hotspotImportsTotal.WithLabelValues(outcome).Inc()
}
