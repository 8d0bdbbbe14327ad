package dedup

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend persists seen keys in SQLite so deduplication survives
// restarts. Uses a write-ahead log for concurrent readers and prepared
// statements on the hot path.
type SQLiteBackend struct {
	db        *sql.DB
	closeOnce sync.Once

	seenStmt     *sql.Stmt
	rememberStmt *sql.Stmt
	pruneStmt    *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite dedup backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a SQLite dedup backend with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{DBPath: dbPath})
}

// NewSQLiteBackendWithConfig creates a SQLite dedup backend with custom
// configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{db: db}
	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return backend, nil
}

func (b *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_documents (
		key TEXT PRIMARY KEY,
		first_seen INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_first_seen ON seen_documents(first_seen);
	`
	_, err := b.db.Exec(schema)
	return err
}

func (b *SQLiteBackend) prepareStatements() error {
	var err error

	b.seenStmt, err = b.db.Prepare(`SELECT 1 FROM seen_documents WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare seen statement: %w", err)
	}

	b.rememberStmt, err = b.db.Prepare(`
		INSERT INTO seen_documents (key, first_seen) VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare remember statement: %w", err)
	}

	b.pruneStmt, err = b.db.Prepare(`DELETE FROM seen_documents WHERE first_seen < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Seen reports whether the key has been recorded.
func (b *SQLiteBackend) Seen(ctx context.Context, key string) (bool, error) {
	var one int
	err := b.seenStmt.QueryRowContext(ctx, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query key: %w", err)
	}
	return true, nil
}

// Remember records the key, keeping the earliest timestamp.
func (b *SQLiteBackend) Remember(ctx context.Context, key string, at time.Time) error {
	if _, err := b.rememberStmt.ExecContext(ctx, key, at.Unix()); err != nil {
		return fmt.Errorf("failed to record key: %w", err)
	}
	return nil
}

// Prune removes entries first seen before the cutoff.
func (b *SQLiteBackend) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := b.pruneStmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return removed, nil
}

// Close closes the prepared statements and the database.
func (b *SQLiteBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{b.seenStmt, b.rememberStmt, b.pruneStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = b.db.Close()
	})
	return err
}
