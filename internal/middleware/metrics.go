package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ajna/ajna-hub/internal/metrics"
)

// MetricsMiddleware records request counts and latency per chi route pattern
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			// Pattern is only known after routing; unmatched paths share one label.
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.status)).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
