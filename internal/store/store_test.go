package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/validation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "sleepdial.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSamplesRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 10, 7, 0, 0, 0, time.UTC)
	samples := []dial.SleepSample{
		dial.NewSample(base.AddDate(0, 0, 2), 8),
		dial.NewSample(base, 7),
		dial.NewSample(base.AddDate(0, 0, 1).Add(500*time.Millisecond), 6.5),
	}
	if err := st.InsertSamples(ctx, samples[:2]); err != nil {
		t.Fatalf("insert samples: %v", err)
	}
	if err := st.InsertSample(ctx, samples[2]); err != nil {
		t.Fatalf("insert sample: %v", err)
	}
	got, err := st.ListSamples(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0].ID != samples[1].ID || got[1].ID != samples[2].ID || got[2].ID != samples[0].ID {
		t.Fatalf("samples not ordered by date: %+v", got)
	}
	if !got[1].Date.Equal(samples[2].Date) || got[1].DurationHours != 6.5 {
		t.Fatalf("sample changed in storage: %+v", got[1])
	}

	since := base.AddDate(0, 0, 1)
	recent, err := st.ListSamples(ctx, &since)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent samples, got %d", len(recent))
	}

	if err := st.InsertSample(ctx, samples[0]); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	if err := st.DeleteSample(ctx, samples[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteSample(ctx, samples[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	n, err := st.CountSamples(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 samples, got %d (%v)", n, err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	fallback := Profile{GoalHours: 7, GoalMinutes: 30}

	p, err := st.LoadProfile(ctx, fallback)
	if err != nil {
		t.Fatalf("load empty profile: %v", err)
	}
	if p != fallback {
		t.Fatalf("expected fallback, got %+v", p)
	}

	p.UserName = "  Night Owl "
	p.Email = "owl@example.com"
	p.NotificationsEnabled = true
	p.Onboarded = true
	p.GoalHours = 8
	p.GoalMinutes = 15
	if err := st.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.LoadProfile(ctx, fallback)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.UserName != "Night Owl" || got.Email != "owl@example.com" || !got.NotificationsEnabled || !got.Onboarded {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.Goal() != 8.25 {
		t.Fatalf("unexpected goal: %v", got.Goal())
	}
}

func TestSaveProfileValidatesEmail(t *testing.T) {
	st := openTestStore(t)
	err := st.SaveProfile(context.Background(), Profile{Email: "not-an-email", GoalHours: 7})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDialStateRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.LoadDialState(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	want := DialState{
		Start:           337.5,
		End:             97.25,
		Days:            dial.NewWeekdaySet(dial.Monday, dial.Friday),
		ReminderEnabled: true,
		Window:          dial.Month,
	}
	if err := st.SaveDialState(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.LoadDialState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	want.Days = 0
	want.ReminderEnabled = false
	if err := st.SaveDialState(ctx, want); err != nil {
		t.Fatalf("save empty days: %v", err)
	}
	got, err = st.LoadDialState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Days.Empty() || got.ReminderEnabled {
		t.Fatalf("expected no days and reminder off, got %+v", got)
	}
}

func TestReplaceRemindersClearsPrevious(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	first := []Reminder{
		{Trigger: dial.Trigger{Weekday: dial.Monday, At: dial.HourMinute{Hour: 22, Minute: 30}}, Title: "Good Night", Body: "a", InstalledAt: now},
		{Trigger: dial.Trigger{Weekday: dial.Tuesday, At: dial.HourMinute{Hour: 22, Minute: 30}}, Title: "Good Night", Body: "a", InstalledAt: now},
	}
	if err := st.ReplaceReminders(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	second := []Reminder{
		{Trigger: dial.Trigger{Weekday: dial.Sunday, At: dial.HourMinute{Hour: 23, Minute: 0}}, Title: "Good Night", Body: "b", InstalledAt: now},
	}
	if err := st.ReplaceReminders(ctx, second); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := st.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Trigger.Weekday != dial.Sunday || got[0].Trigger.At.String() != "23:00" || got[0].Body != "b" {
		t.Fatalf("unexpected reminders: %+v", got)
	}
	if err := st.ClearReminders(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = st.ListReminders(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no reminders, got %v (%v)", got, err)
	}
}
