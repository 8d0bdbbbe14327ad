// Package logging configures the process-wide structured logger (slog)
// and carries request-scoped log fields through context.
package logging
