// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width UTC timestamps keep lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps SQLite access for samples, settings and reminders.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps transactions and reads serialized.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sleep_samples (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			duration_hours REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reminders (
			weekday INTEGER PRIMARY KEY,
			hour INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			installed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_samples_date ON sleep_samples(date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSample stores a sample. Samples are immutable; re-inserting an id fails.
func (s *Store) InsertSample(ctx context.Context, sample dial.SleepSample) error {
	if sample.ID == "" {
		return fmt.Errorf("sample id is empty")
	}
	if sample.DurationHours < 0 {
		return fmt.Errorf("sample duration must be >= 0")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sleep_samples (id, date, duration_hours) VALUES (?, ?, ?)`,
		sample.ID,
		formatTime(sample.Date),
		sample.DurationHours,
	)
	return err
}

// InsertSamples stores several samples in one transaction.
func (s *Store) InsertSamples(ctx context.Context, samples []dial.SleepSample) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sleep_samples (id, date, duration_hours) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, sample := range samples {
		if _, err = stmt.ExecContext(ctx, sample.ID, formatTime(sample.Date), sample.DurationHours); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSamples returns samples ordered by date, optionally only those on or after since.
func (s *Store) ListSamples(ctx context.Context, since *time.Time) ([]dial.SleepSample, error) {
	query := `SELECT id, date, duration_hours FROM sleep_samples`
	args := []any{}
	if since != nil {
		query += ` WHERE date >= ?`
		args = append(args, formatTime(*since))
	}
	query += ` ORDER BY date ASC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []dial.SleepSample
	for rows.Next() {
		var sample dial.SleepSample
		var date string
		if err := rows.Scan(&sample.ID, &date, &sample.DurationHours); err != nil {
			return nil, err
		}
		parsed, err := parseTime(date)
		if err != nil {
			return nil, err
		}
		sample.Date = parsed.Local()
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// DeleteSample removes a sample by id.
func (s *Store) DeleteSample(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sleep_samples WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSamples returns the number of stored samples.
func (s *Store) CountSamples(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sleep_samples`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
