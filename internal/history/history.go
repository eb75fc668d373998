// Package history persists aggregation-scan snapshots in SQLite so
// year totals and scan activity survive restarts. Day records are
// still rebuilt wholesale on every scan; this store is additive.
package history

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
	id              TEXT PRIMARY KEY,
	scanned_at      DATETIME NOT NULL,
	notes_folder    TEXT NOT NULL DEFAULT '',
	days_with_notes INTEGER NOT NULL DEFAULT 0,
	completed_tasks INTEGER NOT NULL DEFAULT 0,
	total_tasks     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS day_stats (
	date_key        TEXT PRIMARY KEY,
	scan_id         TEXT NOT NULL,
	completed_tasks INTEGER NOT NULL DEFAULT 0,
	total_tasks     INTEGER NOT NULL DEFAULT 0,
	tag_count       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);
`

// Store is the interface consumers depend on instead of the concrete
// *DB, to allow mocks in tests.
type Store interface {
	RecordScan(scan ScanRow, days []DayStat) error
	RecentScans(limit int) ([]ScanRow, error)
	TotalsForYear(year int) (YearTotals, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with history-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
