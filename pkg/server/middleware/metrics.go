package middleware

import (
	"net/http"
	"time"

	"freightworks/meridian/pkg/telemetry/metrics"
)

// Metrics records a request counter and latency observation per
// completed request. The route label is the registered mux pattern, not
// the raw URL, to keep label cardinality bounded.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			httpMetrics.RecordRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
