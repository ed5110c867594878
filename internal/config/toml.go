package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dial    DialConfig    `toml:"dial"`
	Sleep   SleepConfig   `toml:"sleep"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// DialConfig maps the initial dial and reminder settings.
type DialConfig struct {
	Start       *float64  `toml:"start"`
	End         *float64  `toml:"end"`
	Days        *[]string `toml:"days"`
	Reminder    *bool     `toml:"reminder"`
	LeadMinutes *int      `toml:"lead-minutes"`
}

// SleepConfig maps the sleep goal and chart window.
type SleepConfig struct {
	GoalHours   *int    `toml:"goal-hours"`
	GoalMinutes *int    `toml:"goal-minutes"`
	Window      *string `toml:"window"`
}

// StorageConfig maps the database location.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// LogConfig maps logging options.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	Output *string `toml:"output"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
