package store

import (
	"context"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

// Reminder is an installed weekly reminder.
type Reminder struct {
	Trigger     dial.Trigger
	Title       string
	Body        string
	InstalledAt time.Time
}

// ReplaceReminders deletes every installed reminder and stores the new set.
func (s *Store) ReplaceReminders(ctx context.Context, reminders []Reminder) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return err
	}
	for _, r := range reminders {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO reminders (weekday, hour, minute, title, body, installed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.Trigger.Weekday.Code(),
			r.Trigger.At.Hour,
			r.Trigger.At.Minute,
			r.Title,
			r.Body,
			formatTime(r.InstalledAt),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListReminders returns installed reminders ordered by weekday code.
func (s *Store) ListReminders(ctx context.Context) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT weekday, hour, minute, title, body, installed_at FROM reminders ORDER BY weekday ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []Reminder
	for rows.Next() {
		var r Reminder
		var weekday int
		var installedAt string
		if err := rows.Scan(&weekday, &r.Trigger.At.Hour, &r.Trigger.At.Minute, &r.Title, &r.Body, &installedAt); err != nil {
			return nil, err
		}
		r.Trigger.Weekday = dial.Weekday(weekday)
		parsed, err := parseTime(installedAt)
		if err != nil {
			return nil, err
		}
		r.InstalledAt = parsed.Local()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearReminders removes every installed reminder.
func (s *Store) ClearReminders(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reminders`)
	return err
}
