// Package ledger persists per-path migration records in SQLite. The ledger
// answers incremental-mode skip decisions and serves as the run's audit
// trail: one row per source path, overwritten on every attempt.
package ledger

import (
	"database/sql"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/model"
)

// mtimeEpsilon is the tolerance for comparing stored and observed
// floating-point modification times.
const mtimeEpsilon = 0.001

// Ledger is the SQLite-backed migration record store. Workers share one
// handle; WAL mode plus busy_timeout and transient-error retries serialize
// concurrent single-row upserts without engine-level coordination.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the ledger database and initializes the schema.
func Open(path string) (*Ledger, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLedger, "open %s: %v", path, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	l := &Ledger{db: db, path: path}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrLedger, "init schema: %v", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error { return l.db.Close() }

// Path returns the database file path.
func (l *Ledger) Path() string { return l.path }

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS migrated_files (
		source_path     TEXT PRIMARY KEY,
		dest_path       TEXT,
		mtime           REAL,
		acl_fingerprint TEXT,
		migrated_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		status          TEXT
	);
	`
	_, err := l.db.Exec(schema)
	return err
}

// AlreadyMigrated reports whether a prior successful migration of path is
// recorded at the same modification time. Floating-point mtimes are never
// compared for exact equality.
func (l *Ledger) AlreadyMigrated(path string, mtime float64) (bool, error) {
	var stored float64
	var status string
	err := l.db.QueryRow(
		`SELECT mtime, status FROM migrated_files WHERE source_path = ?`, path,
	).Scan(&stored, &status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(errors.ErrLedger, "lookup %s: %v", path, err)
	}
	return status == model.StatusSuccess && math.Abs(stored-mtime) < mtimeEpsilon, nil
}

// Record upserts the migration record for a source path. Each record is its
// own atomic unit; there is no cross-file batching.
func (l *Ledger) Record(rec model.MigrationRecord) error {
	err := retryOnContention(func() error {
		_, err := l.db.Exec(
			`INSERT INTO migrated_files (source_path, dest_path, mtime, acl_fingerprint, migrated_at, status)
			 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
			 ON CONFLICT(source_path) DO UPDATE SET
			   dest_path       = excluded.dest_path,
			   mtime           = excluded.mtime,
			   acl_fingerprint = excluded.acl_fingerprint,
			   migrated_at     = excluded.migrated_at,
			   status          = excluded.status`,
			rec.SourcePath, rec.DestPath, rec.Mtime, rec.Fingerprint, rec.Status,
		)
		return err
	})
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "record %s: %v", rec.SourcePath, err)
	}
	return nil
}

// Reset deletes every migration record.
func (l *Ledger) Reset() error {
	err := retryOnContention(func() error {
		_, err := l.db.Exec(`DELETE FROM migrated_files`)
		return err
	})
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "reset: %v", err)
	}
	return nil
}

// Stats summarizes the ledger contents.
type Stats struct {
	Total    int64
	ByStatus map[string]int64
}

// Stats returns the total row count and per-status counts.
func (l *Ledger) Stats() (*Stats, error) {
	st := &Stats{ByStatus: map[string]int64{}}
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM migrated_files`).Scan(&st.Total); err != nil {
		return nil, errors.Wrapf(errors.ErrLedger, "count: %v", err)
	}
	rows, err := l.db.Query(`SELECT status, COUNT(*) FROM migrated_files GROUP BY status`)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLedger, "status counts: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrapf(errors.ErrLedger, "scan: %v", err)
		}
		st.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrLedger, "status counts: %v", err)
	}
	return st, nil
}

// Dump returns every migration record ordered by source path.
func (l *Ledger) Dump() ([]model.MigrationRecord, error) {
	rows, err := l.db.Query(
		`SELECT source_path, dest_path, mtime, acl_fingerprint, migrated_at, status
		 FROM migrated_files ORDER BY source_path`,
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLedger, "dump: %v", err)
	}
	defer rows.Close()

	var recs []model.MigrationRecord
	for rows.Next() {
		var rec model.MigrationRecord
		var migratedAt string
		if err := rows.Scan(&rec.SourcePath, &rec.DestPath, &rec.Mtime,
			&rec.Fingerprint, &migratedAt, &rec.Status); err != nil {
			return nil, errors.Wrapf(errors.ErrLedger, "scan: %v", err)
		}
		ts, err := time.Parse("2006-01-02 15:04:05", migratedAt)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrLedger, "bad migrated_at %q for %s: %v",
				migratedAt, rec.SourcePath, err)
		}
		rec.MigratedAt = ts
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
