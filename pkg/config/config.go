package config

import "time"

// Config is the root configuration structure for Meridian. It contains
// all configuration sections for the HTTP server, shipment storage,
// ingestion, the compliance and monitoring rules, the event stream,
// background jobs, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen
	// address, timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Storage contains shipment storage configuration including backend
	// selection.
	Storage StorageConfig `yaml:"storage"`

	// Ingest contains document ingestion configuration including
	// deduplication settings.
	Ingest IngestConfig `yaml:"ingest"`

	// Compliance contains compliance rule configuration.
	Compliance ComplianceConfig `yaml:"compliance"`

	// Monitoring contains risk classification thresholds.
	Monitoring MonitoringConfig `yaml:"monitoring"`

	// Fleet contains fleet metrics configuration.
	Fleet FleetConfig `yaml:"fleet"`

	// Events contains the Kafka event stream configuration.
	Events EventsConfig `yaml:"events"`

	// Scheduler contains background job configuration.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Telemetry contains observability configuration: logging, metrics,
	// and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8420", "0.0.0.0:8420").
	// Default: "127.0.0.1:8420"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body. Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// RequestTimeout bounds the handling of a single request.
	// Default: 15s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout is how long graceful shutdown waits for in-flight
	// requests. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains cross-origin resource sharing settings for the
	// dashboard.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists origins allowed to call the API.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is how long preflight responses may be cached, in seconds.
	// Default: 300
	MaxAge int `yaml:"max_age"`
}

// StorageConfig contains shipment storage configuration.
type StorageConfig struct {
	// Backend selects the storage implementation.
	// Options: "memory", "sqlite", "postgres"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres contains PostgreSQL backend settings.
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/shipments.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`
}

// PostgresConfig contains PostgreSQL backend settings.
type PostgresConfig struct {
	// ConnString is the PostgreSQL connection string.
	ConnString string `yaml:"conn_string"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime bounds how long a connection may be reused.
	// Default: 30m
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// IngestConfig contains document ingestion configuration.
type IngestConfig struct {
	// Dedup contains deduplication settings.
	Dedup DedupConfig `yaml:"dedup"`
}

// DedupConfig contains deduplication settings.
type DedupConfig struct {
	// Backend selects the dedup store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path (sqlite backend only).
	// Default: "data/dedup.db"
	Path string `yaml:"path"`
}

// ComplianceConfig contains compliance rule configuration.
type ComplianceConfig struct {
	// Watchlist lists route keywords that flag a shipment for manual
	// review. Matching is case-insensitive against the port and
	// destination fields. Default: IRAN, NORTH KOREA, SYRIA
	Watchlist []string `yaml:"watchlist"`
}

// MonitoringConfig contains risk classification thresholds.
type MonitoringConfig struct {
	// EarlyThreshold is how far ahead of plan a shipment must run to be
	// classified early. Default: 6h
	EarlyThreshold time.Duration `yaml:"early_threshold"`

	// RiskThreshold is how far behind plan a shipment must run to be
	// classified at risk. Default: 12h
	RiskThreshold time.Duration `yaml:"risk_threshold"`
}

// FleetConfig contains fleet metrics configuration.
type FleetConfig struct {
	// CompletionGrace is the synthetic completion offset used when
	// averaging processing durations. Default: 15s
	CompletionGrace time.Duration `yaml:"completion_grace"`
}

// EventsConfig contains the Kafka event stream configuration.
type EventsConfig struct {
	// Enabled controls whether lifecycle notes are published.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Brokers lists the Kafka broker addresses.
	Brokers []string `yaml:"brokers"`

	// Topic is the topic lifecycle notes are published to.
	// Default: "shipment.lifecycle"
	Topic string `yaml:"topic"`
}

// SchedulerConfig contains background job configuration.
type SchedulerConfig struct {
	// MetricsSchedule is the cron expression for the fleet metrics
	// refresh. Empty disables the job. Default: "@every 1m"
	MetricsSchedule string `yaml:"metrics_schedule"`

	// PruneSchedule is the cron expression for dedup pruning.
	// Empty disables the job. Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`

	// RetentionDays is how long dedup entries are kept. Default: 30
	RetentionDays int `yaml:"retention_days"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics/prometheus"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "freightworks"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "meridian"
	Subsystem string `yaml:"subsystem"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// Enabled controls whether health endpoints are served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the liveness probe path.
	// Default: "/health/live"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the readiness probe path.
	// Default: "/health/ready"
	ReadinessPath string `yaml:"readiness_path"`
}
