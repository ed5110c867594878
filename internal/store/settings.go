package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/validation"
)

const (
	keyUserName      = "profile.user_name"
	keyEmail         = "profile.email"
	keyNotifications = "profile.notifications"
	keyGoalHours     = "profile.goal_hours"
	keyGoalMinutes   = "profile.goal_minutes"
	keyOnboarded     = "profile.onboarded"

	keyStartAngle = "dial.start"
	keyEndAngle   = "dial.end"
	keyDays       = "dial.days"
	keyReminder   = "dial.reminder"
	keyWindow     = "dial.window"
)

// Profile holds the user's settings screen values.
type Profile struct {
	UserName             string `validate:"max=64"`
	Email                string `validate:"omitempty,email"`
	NotificationsEnabled bool
	GoalHours            int `validate:"gte=1,lte=11"`
	GoalMinutes          int `validate:"gte=0,lte=59"`
	Onboarded            bool
}

// Goal returns the sleep goal in hours.
func (p Profile) Goal() float64 {
	return float64(p.GoalHours) + float64(p.GoalMinutes)/60
}

// Validate checks field constraints.
func (p Profile) Validate() error {
	return validation.Struct(p)
}

// DialState is the last dial position and reminder selection.
type DialState struct {
	Start           float64
	End             float64
	Days            dial.WeekdaySet
	ReminderEnabled bool
	Window          dial.TimeWindow
}

// LoadProfile returns the stored profile. Missing keys keep the values in fallback.
func (s *Store) LoadProfile(ctx context.Context, fallback Profile) (Profile, error) {
	values, err := s.loadSettings(ctx, "profile.")
	if err != nil {
		return Profile{}, err
	}
	p := fallback
	if v, ok := values[keyUserName]; ok {
		p.UserName = v
	}
	if v, ok := values[keyEmail]; ok {
		p.Email = v
	}
	if v, ok := values[keyNotifications]; ok {
		p.NotificationsEnabled = v == "1"
	}
	if v, ok := values[keyOnboarded]; ok {
		p.Onboarded = v == "1"
	}
	if v, ok := values[keyGoalHours]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.GoalHours = n
		}
	}
	if v, ok := values[keyGoalMinutes]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.GoalMinutes = n
		}
	}
	return p, nil
}

// SaveProfile validates and stores the profile.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	p.UserName = strings.TrimSpace(p.UserName)
	p.Email = strings.TrimSpace(p.Email)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.saveSettings(ctx, map[string]string{
		keyUserName:      p.UserName,
		keyEmail:         p.Email,
		keyNotifications: boolString(p.NotificationsEnabled),
		keyGoalHours:     strconv.Itoa(p.GoalHours),
		keyGoalMinutes:   strconv.Itoa(p.GoalMinutes),
		keyOnboarded:     boolString(p.Onboarded),
	})
}

// LoadDialState returns the last saved dial state or ErrNotFound.
func (s *Store) LoadDialState(ctx context.Context) (DialState, error) {
	values, err := s.loadSettings(ctx, "dial.")
	if err != nil {
		return DialState{}, err
	}
	if len(values) == 0 {
		return DialState{}, ErrNotFound
	}
	var state DialState
	if state.Start, err = strconv.ParseFloat(values[keyStartAngle], 64); err != nil {
		return DialState{}, fmt.Errorf("failed to parse start angle: %w", err)
	}
	if state.End, err = strconv.ParseFloat(values[keyEndAngle], 64); err != nil {
		return DialState{}, fmt.Errorf("failed to parse end angle: %w", err)
	}
	if state.Days, err = dial.ParseWeekdayList(values[keyDays]); err != nil {
		return DialState{}, fmt.Errorf("failed to parse days: %w", err)
	}
	state.ReminderEnabled = values[keyReminder] == "1"
	state.Window, err = dial.ParseTimeWindow(values[keyWindow])
	if err != nil {
		state.Window = dial.Week
	}
	return state, nil
}

// SaveDialState stores the dial state.
func (s *Store) SaveDialState(ctx context.Context, state DialState) error {
	return s.saveSettings(ctx, map[string]string{
		keyStartAngle: strconv.FormatFloat(dial.Normalize(state.Start), 'f', -1, 64),
		keyEndAngle:   strconv.FormatFloat(dial.Normalize(state.End), 'f', -1, 64),
		keyDays:       daysString(state.Days),
		keyReminder:   boolString(state.ReminderEnabled),
		keyWindow:     state.Window.String(),
	})
}

func (s *Store) loadSettings(ctx context.Context, prefix string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE key LIKE ?`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) saveSettings(ctx context.Context, values map[string]string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for key, value := range values {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func daysString(days dial.WeekdaySet) string {
	if days.Empty() {
		return "none"
	}
	return days.String()
}
