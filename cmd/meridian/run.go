package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"freightworks/meridian/pkg/cli"
	"freightworks/meridian/pkg/compliance"
	"freightworks/meridian/pkg/config"
	"freightworks/meridian/pkg/events"
	"freightworks/meridian/pkg/fleet"
	"freightworks/meridian/pkg/ingest"
	"freightworks/meridian/pkg/ingest/dedup"
	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/monitoring"
	"freightworks/meridian/pkg/scheduler"
	"freightworks/meridian/pkg/server"
	"freightworks/meridian/pkg/shipment/storage"
	"freightworks/meridian/pkg/telemetry/health"
	"freightworks/meridian/pkg/telemetry/logging"
	"freightworks/meridian/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Meridian API server",
	Long: `Start the Meridian API server with the specified configuration.

The server tracks shipments through the five-phase lifecycle, exposes the
fleet dashboard endpoints, and publishes lifecycle notifications.

Examples:
  # Start with default config
  meridian run

  # Start with custom config
  meridian run --config /etc/meridian/config.yaml

  # Override listen address
  meridian run --listen 0.0.0.0:8420

  # Reload compliance and monitoring settings on config file changes
  meridian run --watch

  # Validate config without starting the server
  meridian run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload compliance and monitoring settings on config changes")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	fmt.Printf("Meridian v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	// Shipment store
	store, err := buildStore(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer store.Close()
	fmt.Printf("Storage backend: %s\n", cfg.Storage.Backend)

	// Dedup store for ingested documents
	dedupBackend, err := buildDedup(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer dedupBackend.Close()

	// Lifecycle event publisher
	var publisher events.Publisher
	if cfg.Events.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(&events.KafkaConfig{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		publisher = kafkaPublisher
		fmt.Printf("Event stream: kafka topic %q\n", cfg.Events.Topic)
	} else {
		publisher = events.NewNopPublisher()
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	engine := lifecycle.NewEngine(store, buildMachine(cfg), publisher, collector)
	defer engine.Close()

	intake := ingest.NewIntake(engine, dedupBackend)
	aggregator := fleet.NewAggregator(cfg.Fleet.CompletionGrace)
	refresher := fleet.NewRefresher(engine, aggregator, func(s *fleet.Snapshot) {
		collector.UpdateFleet(metrics.FleetSnapshot{
			TotalShipments:     s.TotalShipments,
			CompletedShipments: s.CompletedShipments,
			SuccessRate:        s.SuccessRate,
			ShipmentsAtRisk:    s.ShipmentsAtRisk,
			FlaggedShipments:   s.FlaggedShipments,
			EmailShipments:     s.EmailShipments,
			TotalCostSaved:     s.TotalCostSaved,
		})
	})

	ctx, stop := cli.SignalContext()
	defer stop()

	// Background jobs: metrics refresh and dedup pruning
	jobs := scheduler.New(scheduler.Config{
		MetricsSchedule: cfg.Scheduler.MetricsSchedule,
		PruneSchedule:   cfg.Scheduler.PruneSchedule,
		RetentionDays:   cfg.Scheduler.RetentionDays,
	}, refresher, dedupBackend)
	if err := jobs.Start(ctx); err != nil {
		slog.Warn("failed to start background jobs", "error", err)
	} else {
		defer jobs.Stop()
	}

	checker := health.New(0)
	checker.Register("store", func(ctx context.Context) error {
		_, err := store.Count(ctx, nil)
		return err
	})
	checker.Register("dedup", func(ctx context.Context) error {
		_, err := dedupBackend.Seen(ctx, "health-probe")
		return err
	})

	// Optional hot reload of the compliance and monitoring sections
	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile)
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else {
			go func() {
				err := watcher.Watch(ctx, func(next *config.Config) {
					engine.SetMachine(buildMachine(next))
					slog.Info("compliance and monitoring settings reloaded",
						"watchlist_entries", len(next.Compliance.Watchlist))
				})
				if err != nil {
					slog.Warn("config watcher exited", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	srv := server.NewServer(cfg, engine, intake, aggregator, collector, checker)

	fmt.Printf("Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("Fleet snapshot: http://%s/metrics\n", cfg.Server.ListenAddress)
	fmt.Printf("Prometheus:     http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("Server stopped")
	return nil
}

// buildStore constructs the configured shipment storage backend.
func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:        cfg.Storage.SQLite.Path,
			BusyTimeout: cfg.Storage.SQLite.BusyTimeout,
			WALMode:     cfg.Storage.SQLite.WALMode,
		})
	case "postgres":
		return storage.NewPostgresStore(&storage.PostgresConfig{
			ConnString:      cfg.Storage.Postgres.ConnString,
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// buildDedup constructs the configured ingestion dedup backend.
func buildDedup(cfg *config.Config) (dedup.Backend, error) {
	switch cfg.Ingest.Dedup.Backend {
	case "memory":
		return dedup.NewMemoryBackend(), nil
	case "sqlite":
		return dedup.NewSQLiteBackend(cfg.Ingest.Dedup.Path)
	default:
		return nil, fmt.Errorf("unsupported dedup backend: %s", cfg.Ingest.Dedup.Backend)
	}
}

// buildMachine constructs the state machine from the compliance and
// monitoring sections.
func buildMachine(cfg *config.Config) *lifecycle.Machine {
	evaluator := compliance.NewEvaluator(cfg.Compliance.Watchlist)
	classifier := monitoring.NewClassifier(cfg.Monitoring.EarlyThreshold, cfg.Monitoring.RiskThreshold)
	return lifecycle.NewMachine(compliance.NewChecker(evaluator), classifier)
}
