package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the configuration for errors and inconsistencies.
// It returns an error describing the first problem found.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := validateIngest(&cfg.Ingest); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if err := validateMonitoring(&cfg.Monitoring); err != nil {
		return fmt.Errorf("monitoring: %w", err)
	}
	if err := validateEvents(&cfg.Events); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if cfg.Scheduler.RetentionDays < 0 {
		return fmt.Errorf("scheduler: retention_days must not be negative")
	}
	if cfg.Fleet.CompletionGrace < 0 {
		return fmt.Errorf("fleet: completion_grace must not be negative")
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen_address %q: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return fmt.Errorf("max_header_bytes must not be negative")
	}
	return nil
}

func validateStorage(cfg *StorageConfig) error {
	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	case "postgres":
		if cfg.Postgres.ConnString == "" {
			return fmt.Errorf("postgres.conn_string is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (expected memory, sqlite, or postgres)", cfg.Backend)
	}
	return nil
}

func validateIngest(cfg *IngestConfig) error {
	switch cfg.Dedup.Backend {
	case "memory":
	case "sqlite":
		if cfg.Dedup.Path == "" {
			return fmt.Errorf("dedup.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown dedup backend %q (expected memory or sqlite)", cfg.Dedup.Backend)
	}
	return nil
}

func validateMonitoring(cfg *MonitoringConfig) error {
	if cfg.EarlyThreshold <= 0 {
		return fmt.Errorf("early_threshold must be positive")
	}
	if cfg.RiskThreshold <= 0 {
		return fmt.Errorf("risk_threshold must be positive")
	}
	return nil
}

func validateEvents(cfg *EventsConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("brokers are required when the event stream is enabled")
	}
	for _, broker := range cfg.Brokers {
		if strings.TrimSpace(broker) == "" {
			return fmt.Errorf("broker addresses must not be empty")
		}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown logging format %q", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /")
	}
	return nil
}
