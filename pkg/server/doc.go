// Package server assembles the HTTP API: the handler set from
// pkg/server/handlers behind the middleware chain from
// pkg/server/middleware, plus health probes and the Prometheus
// exposition endpoint. It owns the http.Server lifecycle including
// signal handling and graceful shutdown.
package server
