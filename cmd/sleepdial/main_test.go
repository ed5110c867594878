package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/sleepdial/internal/config"
	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/notify"
	"github.com/verte-zerg/sleepdial/internal/store"
)

func TestParseClockAngle(t *testing.T) {
	cases := map[string]float64{
		"00:00": 0,
		"06:00": 90,
		"12:00": 180,
		"23:00": 345,
	}
	for in, want := range cases {
		got, err := parseClockAngle(in)
		if err != nil {
			t.Fatalf("parseClockAngle(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseClockAngle(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseClockAngle("25:00"); err == nil {
		t.Fatalf("expected error for invalid clock")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dial.Start != nil || cfg.Sleep.Window != nil || cfg.Storage.DB != nil {
		t.Fatalf("expected every template value to be commented out")
	}
}

func TestDialCommandPrintsTriggers(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{
		"dial",
		"--config", filepath.Join(dir, "missing.toml"),
		"--db", filepath.Join(dir, "sleep.db"),
		"--log-output", "stderr",
		"--bed", "23:00",
		"--wake", "07:00",
		"--days", "Mon,Fri",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("dial command: %v", err)
	}
	got := out.String()
	for _, want := range []string{"8 hr 0 min", "22:30", "Reminders (30 min before bed)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("dial output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "22:30") != 2 {
		t.Fatalf("expected two triggers:\n%s", got)
	}
}

func TestArmStartupRemindersReplacesStoredSet(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "sleep.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()
	if err := st.SaveProfile(ctx, store.Profile{GoalHours: 8, NotificationsEnabled: true}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	stale := []store.Reminder{{
		Trigger:     dial.Trigger{Weekday: dial.Friday, At: dial.HourMinute{Hour: 19, Minute: 30}},
		Title:       "Good Night",
		Body:        "Time to sleep at 20:00",
		InstalledAt: time.Now(),
	}}
	if err := st.ReplaceReminders(ctx, stale); err != nil {
		t.Fatalf("store stale reminders: %v", err)
	}

	engine := notify.NewEngine(4)
	center := notify.NewCenter(st, engine, notify.SettingsAuthorizer{Profiles: st}, nil)
	state := store.DialState{
		Start:           330,
		End:             90,
		Days:            dial.NewWeekdaySet(dial.Monday),
		ReminderEnabled: true,
	}
	perm, err := armStartupReminders(ctx, center, state, 30*time.Minute)
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	if perm != notify.PermissionGranted {
		t.Fatalf("permission = %s, want granted", perm)
	}
	stored, err := st.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	want := dial.Trigger{Weekday: dial.Monday, At: dial.HourMinute{Hour: 21, Minute: 30}}
	if len(stored) != 1 || stored[0].Trigger != want {
		t.Fatalf("unexpected stored reminders %+v", stored)
	}
	if pending := engine.Pending(); len(pending) != 1 || pending[0].Trigger != want {
		t.Fatalf("unexpected armed reminders %+v", pending)
	}
}

func runRoot(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args,
		"--config", filepath.Join(dir, "missing.toml"),
		"--db", filepath.Join(dir, "sleep.db"),
		"--log-output", "stderr",
	))
	err := root.Execute()
	return out.String(), err
}

func TestSamplesAddAcceptsZeroHours(t *testing.T) {
	dir := t.TempDir()
	got, err := runRoot(t, dir, "samples", "add", "--date", "2026-10-17", "--hours", "0")
	if err != nil {
		t.Fatalf("samples add: %v", err)
	}
	if !strings.Contains(got, "0h 00m on 2026-10-17") {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if _, err := runRoot(t, dir, "samples", "add", "--date", "2026-10-17", "--hours=-1"); err == nil {
		t.Fatalf("expected negative hours to be rejected")
	}
}
