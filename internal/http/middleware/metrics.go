package middleware

import (
	"net/http"
	"time"

	"github.com/fourloop/sourceflow/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency labelled by chi route pattern
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		metrics.ObserveHTTP(r.Method, routePattern(r), rw.statusCode, time.Since(start))
	})
}

// routePattern returns the matched chi pattern, or "unmatched"
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
