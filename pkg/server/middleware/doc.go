// Package middleware provides the HTTP middleware chain for the API
// server: panic recovery, request logging, request id propagation,
// CORS, per-request timeouts, and request metrics.
//
// The chain is assembled outermost-first by the server:
//
//	Recovery -> Logging -> RequestID -> CORS -> Timeout -> Metrics -> mux
package middleware
