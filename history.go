package mdpress

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// History is a SQLite ledger of ingestion runs kept for traceability. It is
// strictly optional: the content pipeline never reads it.
type History struct {
	db *sql.DB
}

// Run is one recorded ingestion run.
type Run struct {
	ID        int64
	StartedAt string
	Duration  time.Duration
	Scanned   int
	Inserted  int
	Skipped   int
	Warnings  []string
}

// OpenHistory opens (or creates) the run ledger at path, ensures its parent
// directory exists, and runs schema migrations.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL plus a busy timeout so a concurrently open `mdpress history`
	// reader waits instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	h := &History{db: db}
	if err := h.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) ensureSchema() error {
	_, err := h.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    scanned INTEGER NOT NULL,
    inserted INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    warnings TEXT NOT NULL
);
`)
	return err
}

// Record appends one run to the ledger.
func (h *History) Record(startedAt time.Time, duration time.Duration, sum Summary) error {
	_, err := h.db.Exec(
		`INSERT INTO runs (started_at, duration_ms, scanned, inserted, skipped, warnings) VALUES (?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339),
		duration.Milliseconds(),
		sum.Scanned, sum.Inserted, sum.Skipped,
		strings.Join(sum.Warnings, "\n"))
	return err
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(limit int) ([]Run, error) {
	rows, err := h.db.Query(
		`SELECT id, started_at, duration_ms, scanned, inserted, skipped, warnings FROM runs ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		var warnings string
		if err := rows.Scan(&r.ID, &r.StartedAt, &ms, &r.Scanned, &r.Inserted, &r.Skipped, &warnings); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		if warnings != "" {
			r.Warnings = strings.Split(warnings, "\n")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
