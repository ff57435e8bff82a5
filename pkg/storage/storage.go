// Package storage keeps a local history of completed checks in SQLite.
// The history is append-only during checking and is never consulted to
// answer a lookup; every check always hits the remote endpoint.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MineX13/Discord-promo-checker/pkg/gift"
)

type DB struct {
	sql *sql.DB
}

// CheckRecord is one stored lookup outcome.
type CheckRecord struct {
	ID        int64
	Code      string
	Status    string
	Plan      string
	Uses      int64
	MaxUses   int64
	Message   string
	CheckedAt time.Time
}

// StatusCount pairs a status with how many stored checks landed on it.
type StatusCount struct {
	Status string
	Count  int64
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS checks (
  id         INTEGER PRIMARY KEY,
  code       TEXT NOT NULL,
  status     TEXT NOT NULL,
  plan       TEXT,
  uses       INTEGER NOT NULL DEFAULT 0,
  max_uses   INTEGER NOT NULL DEFAULT 1,
  message    TEXT,
  checked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_checks_code ON checks(code);
CREATE INDEX IF NOT EXISTS idx_checks_time ON checks(checked_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordResult appends one check outcome to the history.
func (d *DB) RecordResult(ctx context.Context, r gift.Result) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO checks (code, status, plan, uses, max_uses, message, checked_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.Code, string(r.Status), r.Plan, r.Uses, r.MaxUses, r.Message, time.Now().UTC())
	return err
}

// RecordResults appends a whole batch in one transaction.
func (d *DB) RecordResults(ctx context.Context, results []gift.Result) error {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, r := range results {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO checks (code, status, plan, uses, max_uses, message, checked_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			r.Code, string(r.Status), r.Plan, r.Uses, r.MaxUses, r.Message, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Stats returns per-status totals across the whole history.
func (d *DB) Stats(ctx context.Context) ([]StatusCount, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT status, COUNT(*) FROM checks GROUP BY status ORDER BY COUNT(*) DESC, status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StatusCount
	for rows.Next() {
		var s StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Recent returns the newest stored checks, most recent first.
func (d *DB) Recent(ctx context.Context, limit int) ([]CheckRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, code, status, plan, uses, max_uses, message, checked_at FROM checks ORDER BY checked_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CheckRecord
	for rows.Next() {
		var (
			rec           CheckRecord
			plan, message sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.Status, &plan, &rec.Uses, &rec.MaxUses, &message, &rec.CheckedAt); err != nil {
			return nil, err
		}
		rec.Plan = plan.String
		rec.Message = message.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
