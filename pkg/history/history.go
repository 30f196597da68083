// Package history keeps an append-only log of loaded ratings in SQLite.
// Entries are for inspection only and are never shown on the widgets.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Entry is one stored reading.
type Entry struct {
	FetchedAt time.Time
	Platform  rating.Platform
	Value     string
	Subtitle  string
	Color     string
	Source    string
	ID        int64
	Rating    int
	Known     bool
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS ratings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	platform   TEXT    NOT NULL,
	rating     INTEGER NOT NULL DEFAULT 0,
	known      INTEGER NOT NULL DEFAULT 0,
	value      TEXT    NOT NULL,
	subtitle   TEXT    NOT NULL DEFAULT '',
	color      TEXT    NOT NULL DEFAULT '',
	source     TEXT    NOT NULL DEFAULT '',
	fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ratings_platform_fetched ON ratings(platform, fetched_at);
`

// Open opens (creating if needed) the database at path. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends records in a single transaction. Nil records are skipped.
func (s *Store) Record(ctx context.Context, records []*rating.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ratings
		(platform, rating, known, value, subtitle, color, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // closed with tx

	for _, r := range records {
		if r == nil {
			continue
		}
		fetched := r.FetchedAt
		if fetched.IsZero() {
			fetched = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, string(r.Platform), r.Rating, r.Known, r.Value,
			r.Subtitle, r.Color, r.Source, fetched.UnixNano()); err != nil {
			return fmt.Errorf("insert %s: %w", r.Platform, err)
		}
	}
	return tx.Commit()
}

// Latest returns up to n entries for a platform, newest first.
func (s *Store) Latest(ctx context.Context, p rating.Platform, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, platform, rating, known, value, subtitle, color, source, fetched_at
		FROM ratings WHERE platform = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`, string(p), n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			platform string
			nanos    int64
		)
		if err := rows.Scan(&e.ID, &platform, &e.Rating, &e.Known, &e.Value, &e.Subtitle, &e.Color, &e.Source, &nanos); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Platform = rating.Platform(platform)
		e.FetchedAt = time.Unix(0, nanos)
		out = append(out, e)
	}
	return out, rows.Err()
}
