package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"freightworks/meridian/pkg/shipment"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/shipments.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite storage backend. It initializes the
// database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "shipment.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, shipment.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite shipment store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return shipment.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return shipment.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return shipment.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return shipment.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return shipment.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return shipment.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Put upserts a shipment record and bumps its version counter.
func (s *SQLiteStore) Put(ctx context.Context, record *shipment.Shipment) error {
	if record == nil || record.ID == "" {
		return shipment.NewValidationError("id", "missing shipment id")
	}

	progress, err := json.Marshal(record.PhaseProgress)
	if err != nil {
		return shipment.NewStorageError("sqlite", "marshal_progress", err)
	}
	issues, err := json.Marshal(record.ComplianceIssues)
	if err != nil {
		return shipment.NewStorageError("sqlite", "marshal_issues", err)
	}

	var emailMeta interface{}
	if record.EmailMetadata != nil {
		raw, err := json.Marshal(record.EmailMetadata)
		if err != nil {
			return shipment.NewStorageError("sqlite", "marshal_email_metadata", err)
		}
		emailMeta = string(raw)
	}

	newVersion := record.Version + 1

	query := `
		INSERT INTO shipments (
			id, container_no,
			current_phase, phase_progress,
			compliance_status, compliance_issues,
			monitoring_status, eta_planned, eta_current, eta_variance_hours,
			shipper, consignee, hs_code, commodity, port, destination,
			eta, arrival_date, promised_date,
			cost_saved, gross_margin,
			source, email_metadata,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			container_no = excluded.container_no,
			current_phase = excluded.current_phase,
			phase_progress = excluded.phase_progress,
			compliance_status = excluded.compliance_status,
			compliance_issues = excluded.compliance_issues,
			monitoring_status = excluded.monitoring_status,
			eta_planned = excluded.eta_planned,
			eta_current = excluded.eta_current,
			eta_variance_hours = excluded.eta_variance_hours,
			shipper = excluded.shipper,
			consignee = excluded.consignee,
			hs_code = excluded.hs_code,
			commodity = excluded.commodity,
			port = excluded.port,
			destination = excluded.destination,
			eta = excluded.eta,
			arrival_date = excluded.arrival_date,
			promised_date = excluded.promised_date,
			cost_saved = excluded.cost_saved,
			gross_margin = excluded.gross_margin,
			source = excluded.source,
			email_metadata = excluded.email_metadata,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, nullString(record.ContainerNo),
		string(record.CurrentPhase), string(progress),
		string(record.ComplianceStatus), string(issues),
		string(record.MonitoringStatus), nullTime(record.ETAPlanned), nullTime(record.ETACurrent), record.ETAVarianceHours,
		nullString(record.Shipper), nullString(record.Consignee), nullString(record.HSCode),
		nullString(record.Commodity), nullString(record.Port), nullString(record.Destination),
		nullTime(record.ETA), nullTime(record.ArrivalDate), nullTime(record.PromisedDate),
		nullFloat(record.CostSaved), nullFloat(record.GrossMargin),
		string(record.Source), emailMeta,
		newVersion, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return shipment.NewStorageError("sqlite", "put", err)
	}

	record.Version = newVersion
	return nil
}

// Get retrieves a shipment by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*shipment.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM shipments WHERE id = ?", id)
	if err != nil {
		return nil, shipment.NewStorageError("sqlite", "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, shipment.NewStorageError("sqlite", "get", err)
		}
		return nil, shipment.NewNotFoundError(id)
	}

	record, err := scanShipment(rows)
	if err != nil {
		return nil, shipment.NewStorageError("sqlite", "scan", err)
	}
	return record, nil
}

// List returns the shipments matching the filter, ordered by creation
// time then id.
func (s *SQLiteStore) List(ctx context.Context, filter *Filter) ([]*shipment.Shipment, error) {
	query := selectColumns + " FROM shipments"
	whereClause, args := buildWhereClause(filter)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at ASC, id ASC"

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter != nil && filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shipment.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	records := []*shipment.Shipment{}
	for rows.Next() {
		record, err := scanShipment(rows)
		if err != nil {
			return nil, shipment.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, shipment.NewStorageError("sqlite", "list", err)
	}

	return records, nil
}

// Count returns the number of shipments matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter *Filter) (int64, error) {
	query := "SELECT COUNT(*) FROM shipments"
	whereClause, args := buildWhereClause(filter)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, shipment.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes a shipment by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM shipments WHERE id = ?", id)
	if err != nil {
		return shipment.NewStorageError("sqlite", "delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return shipment.NewStorageError("sqlite", "delete", err)
	}
	if affected == 0 {
		return shipment.NewNotFoundError(id)
	}
	return nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return shipment.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite shipment store closed")
	return nil
}

// selectColumns is the column list shared by Get and List, kept in scan
// order.
const selectColumns = `SELECT
	id, container_no,
	current_phase, phase_progress,
	compliance_status, compliance_issues,
	monitoring_status, eta_planned, eta_current, eta_variance_hours,
	shipper, consignee, hs_code, commodity, port, destination,
	eta, arrival_date, promised_date,
	cost_saved, gross_margin,
	source, email_metadata,
	version, created_at, updated_at`

// buildWhereClause builds a SQL WHERE clause from the filter. Returns the
// clause (without the WHERE keyword) and the query arguments.
func buildWhereClause(filter *Filter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if filter.Phase != "" {
		conditions = append(conditions, "current_phase = ?")
		args = append(args, string(filter.Phase))
	}
	if filter.ComplianceStatus != "" {
		conditions = append(conditions, "compliance_status = ?")
		args = append(args, string(filter.ComplianceStatus))
	}
	if filter.MonitoringStatus != "" {
		conditions = append(conditions, "monitoring_status = ?")
		args = append(args, string(filter.MonitoringStatus))
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, string(filter.Source))
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

// scanShipment scans a database row into a Shipment.
func scanShipment(rows *sql.Rows) (*shipment.Shipment, error) {
	var record shipment.Shipment
	var containerNo, shipper, consignee, hsCode, commodity, port, destination sql.NullString
	var progress, issues string
	var emailMeta sql.NullString
	var etaPlanned, etaCurrent, eta, arrivalDate, promisedDate sql.NullTime
	var costSaved, grossMargin sql.NullFloat64
	var currentPhase, complianceStatus, monitoringStatus, source string

	err := rows.Scan(
		&record.ID, &containerNo,
		&currentPhase, &progress,
		&complianceStatus, &issues,
		&monitoringStatus, &etaPlanned, &etaCurrent, &record.ETAVarianceHours,
		&shipper, &consignee, &hsCode, &commodity, &port, &destination,
		&eta, &arrivalDate, &promisedDate,
		&costSaved, &grossMargin,
		&source, &emailMeta,
		&record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ContainerNo = containerNo.String
	record.CurrentPhase = shipment.Phase(currentPhase)
	record.ComplianceStatus = shipment.ComplianceStatus(complianceStatus)
	record.MonitoringStatus = shipment.MonitoringStatus(monitoringStatus)
	record.Source = shipment.Source(source)
	record.Shipper = shipper.String
	record.Consignee = consignee.String
	record.HSCode = hsCode.String
	record.Commodity = commodity.String
	record.Port = port.String
	record.Destination = destination.String

	if err := json.Unmarshal([]byte(progress), &record.PhaseProgress); err != nil {
		return nil, err
	}
	if issues != "" {
		if err := json.Unmarshal([]byte(issues), &record.ComplianceIssues); err != nil {
			return nil, err
		}
	}
	if emailMeta.Valid && emailMeta.String != "" {
		var meta shipment.EmailMetadata
		if err := json.Unmarshal([]byte(emailMeta.String), &meta); err != nil {
			return nil, err
		}
		record.EmailMetadata = &meta
	}

	record.ETAPlanned = timePtr(etaPlanned)
	record.ETACurrent = timePtr(etaCurrent)
	record.ETA = timePtr(eta)
	record.ArrivalDate = timePtr(arrivalDate)
	record.PromisedDate = timePtr(promisedDate)
	record.CostSaved = floatPtr(costSaved)
	record.GrossMargin = floatPtr(grossMargin)

	record.Normalize()
	return &record, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
