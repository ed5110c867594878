package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/conf")
	if got, want := DefaultDBPath(), filepath.Join("/tmp/data", "sleepdial", "sleepdial.db"); got != want {
		t.Fatalf("DefaultDBPath = %q, want %q", got, want)
	}
	if got, want := DefaultLogPath(), filepath.Join("/tmp/data", "sleepdial", "sleepdial.log"); got != want {
		t.Fatalf("DefaultLogPath = %q, want %q", got, want)
	}
	if got, want := DefaultConfigPath(), filepath.Join("/tmp/conf", "sleepdial", "config.toml"); got != want {
		t.Fatalf("DefaultConfigPath = %q, want %q", got, want)
	}
}

func TestXDGFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/sleeper")
	got := XDGDataHome()
	if filepath.Base(got) != "share" || filepath.Base(filepath.Dir(got)) != ".local" {
		t.Fatalf("unexpected data home %q", got)
	}
}
