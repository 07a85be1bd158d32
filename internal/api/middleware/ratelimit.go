// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimitExceeded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "flipbook_http_rate_limited_total",
	Help: "Requests rejected by the API rate limiter",
})

const rateLimitBody = `{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	// RequestLimit is the maximum number of requests allowed in the window.
	RequestLimit int
	// WindowSize is the sliding window length.
	WindowSize time.Duration
	// KeyFunc extracts the limiter key. Defaults to the client IP.
	KeyFunc func(r *http.Request) (string, error)
}

// RateLimit limits requests per key with httprate's sliding window
// counter. Rejections are JSON in the API error shape with Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	retryAfter := strconv.Itoa(max(1, int(cfg.WindowSize.Seconds())))

	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			rateLimitExceeded.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
		}),
	)
}

// APIRateLimit returns the per-IP API limiter, or a pass-through when
// disabled or misconfigured.
func APIRateLimit(enabled bool, requests int, window time.Duration) func(http.Handler) http.Handler {
	if !enabled || requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimit(RateLimitConfig{RequestLimit: requests, WindowSize: window})
}
