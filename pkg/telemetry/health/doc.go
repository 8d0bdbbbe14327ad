// Package health provides liveness and readiness probes for the
// service. Components register probe functions with a Checker; the HTTP
// handlers aggregate them into Kubernetes-style probe responses.
package health
