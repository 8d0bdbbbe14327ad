// Package scheduler runs the periodic background jobs of the service:
// refreshing the exported fleet metrics and pruning aged dedup entries.
// Jobs are cron-scheduled and drain on shutdown.
package scheduler
