// Package config resolves sleepdial's TOML file, defaults and XDG paths.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const appName = "sleepdial"

// xdgDir returns $env, or the fallback path under the home directory.
func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns $XDG_DATA_HOME or ~/.local/share.
func XDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultDBPath is where samples, settings and reminders are stored.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultLogPath is the log file used while the TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".log")
}

// DefaultConfigPath returns the TOML config location.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
