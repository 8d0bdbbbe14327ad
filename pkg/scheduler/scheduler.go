package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"freightworks/meridian/pkg/ingest/dedup"
)

// MetricsRefresher recomputes the fleet snapshot and pushes it to the
// exported gauges.
type MetricsRefresher interface {
	Refresh(ctx context.Context) error
}

// Config controls the background jobs.
type Config struct {
	// MetricsSchedule is the cron expression for the fleet metrics
	// refresh. Empty disables the job.
	MetricsSchedule string `yaml:"metrics_schedule"`

	// PruneSchedule is the cron expression for dedup pruning.
	// Empty disables the job.
	//
	// Common cron expressions:
	//   - "0 3 * * *"    - Daily at 3 AM
	//   - "0 */6 * * *"  - Every 6 hours
	//   - "@every 30s"   - Every 30 seconds
	PruneSchedule string `yaml:"prune_schedule"`

	// RetentionDays is how long dedup entries are kept. Default: 30
	RetentionDays int `yaml:"retention_days"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.RetentionDays == 0 {
		c.RetentionDays = 30
	}
}

// Scheduler runs the periodic background jobs: the fleet metrics
// refresh and the dedup retention prune.
type Scheduler struct {
	config    Config
	refresher MetricsRefresher
	dedup     dedup.Backend
	cron      *cron.Cron
	mu        sync.Mutex
	logger    *slog.Logger
	running   bool
}

// New creates a scheduler. A nil refresher or dedup backend disables
// the corresponding job.
func New(config Config, refresher MetricsRefresher, dedupBackend dedup.Backend) *Scheduler {
	config.ApplyDefaults()
	return &Scheduler{
		config:    config,
		refresher: refresher,
		dedup:     dedupBackend,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "scheduler"),
	}
}

// Start registers the configured jobs and begins running them. The
// scheduler stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := 0

	if s.config.MetricsSchedule != "" && s.refresher != nil {
		if _, err := cron.ParseStandard(s.config.MetricsSchedule); err != nil {
			return fmt.Errorf("invalid metrics schedule %q: %w", s.config.MetricsSchedule, err)
		}
		if _, err := s.cron.AddFunc(s.config.MetricsSchedule, func() {
			s.runMetricsRefresh(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule metrics refresh: %w", err)
		}
		jobs++
	}

	if s.config.PruneSchedule != "" && s.dedup != nil {
		if _, err := cron.ParseStandard(s.config.PruneSchedule); err != nil {
			return fmt.Errorf("invalid prune schedule %q: %w", s.config.PruneSchedule, err)
		}
		if _, err := s.cron.AddFunc(s.config.PruneSchedule, func() {
			s.runPrune(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule dedup pruning: %w", err)
		}
		jobs++
	}

	if jobs == 0 {
		s.logger.Info("no background jobs configured, skipping scheduler")
		return nil
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started",
		"metrics_schedule", s.config.MetricsSchedule,
		"prune_schedule", s.config.PruneSchedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runMetricsRefresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("scheduled metrics refresh failed", "error", err)
		return
	}
	s.logger.Debug("scheduled metrics refresh completed")
}

func (s *Scheduler) runPrune(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.RetentionDays)

	removed, err := s.dedup.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error("scheduled dedup pruning failed", "error", err)
		return
	}

	if removed > 0 {
		s.logger.Info("scheduled dedup pruning completed", "removed_count", removed)
	} else {
		s.logger.Debug("scheduled dedup pruning completed, nothing removed")
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled job time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	for _, entry := range entries[1:] {
		if entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return &next
}
