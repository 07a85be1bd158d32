package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers.
// "*" in allowedOrigins allows every origin. An empty list falls back to
// common local development origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8080",
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Client-ID", "Authorization"},
		ExposedHeaders: []string{"X-Request-ID", "Location"},
		MaxAge:         600,
	})
	return c.Handler
}
