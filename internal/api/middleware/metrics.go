// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute labels requests chi could not route. Raw paths carry
// viewer and document ids and would grow the series without bound.
const unmatchedRoute = "unmatched"

var (
	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flipbook_http_request_duration_seconds",
		Help:    "Flipbook API latency in seconds by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	apiRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flipbook_http_requests_in_flight",
		Help: "Flipbook API requests currently being served",
	})

	// Uploads dominate request bodies; 100 B to 10 GB.
	apiRequestSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flipbook_http_request_size_bytes",
		Help:    "Flipbook API request body size (document uploads, hotspot configs)",
		Buckets: prometheus.ExponentialBuckets(100, 10, 8),
	}, []string{"method", "route"})

	apiResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flipbook_http_response_size_bytes",
		Help:    "Flipbook API response size (snapshots, page windows, exports)",
		Buckets: prometheus.ExponentialBuckets(100, 10, 8),
	}, []string{"method", "route", "status"})
)

// Metrics records latency, in-flight count and body sizes per route
// pattern.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			apiRequestsInFlight.Inc()
			defer apiRequestsInFlight.Dec()

			rec := &statusSizeWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The pattern is only complete once the router has matched.
			route := routePattern(r)
			status := strconv.Itoa(rec.status)
			apiRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			if r.ContentLength > 0 {
				apiRequestSize.WithLabelValues(r.Method, route).Observe(float64(r.ContentLength))
			}
			if rec.bytes > 0 {
				apiResponseSize.WithLabelValues(r.Method, route, status).Observe(float64(rec.bytes))
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// statusSizeWriter remembers the first status code and counts body bytes.
type statusSizeWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusSizeWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusSizeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusSizeWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
