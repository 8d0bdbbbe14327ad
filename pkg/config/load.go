package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It seeds the enable flags that default to true, applies default
// values, validates the configuration, and returns any errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := &Config{}
	cfg.Server.CORS.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Telemetry.Health.Enabled = true

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention MERIDIAN_SECTION_FIELD (e.g.
// MERIDIAN_SERVER_LISTEN_ADDRESS) and always take precedence over
// file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides using the
// format MERIDIAN_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("MERIDIAN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("MERIDIAN_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("MERIDIAN_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("MERIDIAN_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if val := os.Getenv("MERIDIAN_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Storage overrides
	if val := os.Getenv("MERIDIAN_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("MERIDIAN_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}
	if val := os.Getenv("MERIDIAN_STORAGE_POSTGRES_CONN_STRING"); val != "" {
		cfg.Storage.Postgres.ConnString = val
	}

	// Ingest overrides
	if val := os.Getenv("MERIDIAN_INGEST_DEDUP_BACKEND"); val != "" {
		cfg.Ingest.Dedup.Backend = val
	}
	if val := os.Getenv("MERIDIAN_INGEST_DEDUP_PATH"); val != "" {
		cfg.Ingest.Dedup.Path = val
	}

	// Compliance overrides
	if val := os.Getenv("MERIDIAN_COMPLIANCE_WATCHLIST"); val != "" {
		parts := strings.Split(val, ",")
		watchlist := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				watchlist = append(watchlist, trimmed)
			}
		}
		cfg.Compliance.Watchlist = watchlist
	}

	// Monitoring overrides
	if val := os.Getenv("MERIDIAN_MONITORING_EARLY_THRESHOLD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Monitoring.EarlyThreshold = d
		}
	}
	if val := os.Getenv("MERIDIAN_MONITORING_RISK_THRESHOLD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Monitoring.RiskThreshold = d
		}
	}

	// Fleet overrides
	if val := os.Getenv("MERIDIAN_FLEET_COMPLETION_GRACE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Fleet.CompletionGrace = d
		}
	}

	// Events overrides
	if val := os.Getenv("MERIDIAN_EVENTS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Events.Enabled = b
		}
	}
	if val := os.Getenv("MERIDIAN_EVENTS_BROKERS"); val != "" {
		cfg.Events.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("MERIDIAN_EVENTS_TOPIC"); val != "" {
		cfg.Events.Topic = val
	}

	// Scheduler overrides
	if val := os.Getenv("MERIDIAN_SCHEDULER_METRICS_SCHEDULE"); val != "" {
		cfg.Scheduler.MetricsSchedule = val
	}
	if val := os.Getenv("MERIDIAN_SCHEDULER_PRUNE_SCHEDULE"); val != "" {
		cfg.Scheduler.PruneSchedule = val
	}
	if val := os.Getenv("MERIDIAN_SCHEDULER_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Scheduler.RetentionDays = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("MERIDIAN_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MERIDIAN_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MERIDIAN_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("MERIDIAN_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
