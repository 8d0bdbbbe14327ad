package middleware

// contextKey is a custom type for context keys to avoid collisions.
// Request ids live under the shared key in pkg/telemetry/logging.
type contextKey string

// StartTimeKey stores the request start time for latency calculation.
const StartTimeKey contextKey = "start_time"
