package config

import "time"

// ApplyDefaults fills in default values for any unset configuration
// fields. Boolean enable flags are not touched here: YAML cannot tell
// unset from false, so flags defaulting to true are seeded by callers
// before unmarshal (see LoadConfig and DefaultConfig).
func ApplyDefaults(cfg *Config) {
	// Server
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8420"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20
	}

	// CORS
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = 300
	}

	// Storage
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/shipments.db"
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = 5 * time.Second
	}
	if cfg.Storage.Postgres.MaxOpenConns == 0 {
		cfg.Storage.Postgres.MaxOpenConns = 10
	}
	if cfg.Storage.Postgres.MaxIdleConns == 0 {
		cfg.Storage.Postgres.MaxIdleConns = 5
	}
	if cfg.Storage.Postgres.ConnMaxLifetime == 0 {
		cfg.Storage.Postgres.ConnMaxLifetime = 30 * time.Minute
	}

	// Ingest
	if cfg.Ingest.Dedup.Backend == "" {
		cfg.Ingest.Dedup.Backend = "memory"
	}
	if cfg.Ingest.Dedup.Path == "" {
		cfg.Ingest.Dedup.Path = "data/dedup.db"
	}

	// Monitoring
	if cfg.Monitoring.EarlyThreshold == 0 {
		cfg.Monitoring.EarlyThreshold = 6 * time.Hour
	}
	if cfg.Monitoring.RiskThreshold == 0 {
		cfg.Monitoring.RiskThreshold = 12 * time.Hour
	}

	// Fleet
	if cfg.Fleet.CompletionGrace == 0 {
		cfg.Fleet.CompletionGrace = 15 * time.Second
	}

	// Events
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "shipment.lifecycle"
	}

	// Scheduler
	if cfg.Scheduler.MetricsSchedule == "" {
		cfg.Scheduler.MetricsSchedule = "@every 1m"
	}
	if cfg.Scheduler.PruneSchedule == "" {
		cfg.Scheduler.PruneSchedule = "0 3 * * *"
	}
	if cfg.Scheduler.RetentionDays == 0 {
		cfg.Scheduler.RetentionDays = 30
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = "/metrics/prometheus"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "freightworks"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "meridian"
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = "/health/live"
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = "/health/ready"
	}
}

// DefaultConfig returns a configuration with all defaults applied and
// the opt-out sections enabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Telemetry.Health.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
