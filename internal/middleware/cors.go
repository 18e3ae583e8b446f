package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware returns CORS configuration for device and dashboard clients.
// Preflight requests are answered here, before the API key gate sees them.
func CORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,

		AllowedMethods: []string{"GET", "POST", "OPTIONS"},

		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-API-Key",
			"X-Requested-With",
		},

		ExposedHeaders: []string{
			"X-Request-Id",
		},

		// The key travels in a header, not a cookie.
		AllowCredentials: false,

		// Cache preflight requests for 5 minutes
		MaxAge: 300,
	})
}
