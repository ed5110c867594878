package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dial.Start != nil || cfg.Sleep.Window != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(FileConfig{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Dial.Start != 0 || s.Dial.End != 180 {
		t.Fatalf("unexpected angles: %+v", s.Dial)
	}
	if s.Weekdays() != dial.AllWeekdays() {
		t.Fatalf("expected all days selected, got %s", s.Weekdays())
	}
	if s.Dial.Reminder {
		t.Fatalf("reminder must default to off")
	}
	if s.Goal() != 7.5 || s.TimeWindow() != dial.Week || s.Lead().Minutes() != 30 {
		t.Fatalf("unexpected sleep defaults: %+v", s.Sleep)
	}
	if s.Log.Level != "info" || s.Log.Format != "json" {
		t.Fatalf("unexpected log defaults: %+v", s.Log)
	}
}

func TestResolveOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
[dial]
start = 330.0
end = 0.0
days = ["mon", "Wed"]
reminder = true
lead-minutes = 45

[sleep]
goal-hours = 8
goal-minutes = 0
window = "month"

[storage]
db = "~/sleep/test.db"
`)
	file, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := Resolve(file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Dial.Start != 330 || s.Dial.End != 0 {
		t.Fatalf("explicit zero end angle must survive defaults: %+v", s.Dial)
	}
	if s.Weekdays() != dial.NewWeekdaySet(dial.Monday, dial.Wednesday) {
		t.Fatalf("unexpected days: %s", s.Weekdays())
	}
	if !s.Dial.Reminder || s.Dial.LeadMinutes != 45 {
		t.Fatalf("unexpected reminder settings: %+v", s.Dial)
	}
	if s.Goal() != 8 || s.TimeWindow() != dial.Month {
		t.Fatalf("unexpected sleep settings: %+v", s.Sleep)
	}
	home, err := homedir.Dir()
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if s.Storage.DB != filepath.Join(home, "sleep", "test.db") {
		t.Fatalf("expected expanded db path, got %s", s.Storage.DB)
	}
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"goal":   "[sleep]\ngoal-hours = 12\n",
		"window": "[sleep]\nwindow = \"year\"\n",
		"days":   "[dial]\ndays = [\"Funday\"]\n",
		"level":  "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		file, err := LoadConfig(writeConfig(t, body))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if _, err := Resolve(file); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestResolveNormalizesAngles(t *testing.T) {
	start := -30.0
	end := 725.0
	s, err := Resolve(FileConfig{Dial: DialConfig{Start: &start, End: &end}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Dial.Start != 330 || s.Dial.End != 5 {
		t.Fatalf("unexpected angles: %+v", s.Dial)
	}
}
