package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/validation"
)

// ErrInvalidConfig is returned when resolved settings fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Settings are the resolved runtime options.
type Settings struct {
	Dial    DialSettings
	Sleep   SleepSettings
	Storage StorageSettings
	Log     LogSettings
}

// DialSettings hold the initial handle positions and reminder options.
type DialSettings struct {
	Start       float64  `default:"0"`
	End         float64  `default:"180"`
	Days        []string `default:"[\"Mon\",\"Tue\",\"Wed\",\"Thu\",\"Fri\",\"Sat\",\"Sun\"]"`
	Reminder    bool
	LeadMinutes int `default:"30" validate:"gte=0,lte=720"`
}

// SleepSettings hold the nightly goal and chart window.
type SleepSettings struct {
	GoalHours   int    `default:"7" validate:"gte=1,lte=11"`
	GoalMinutes int    `default:"30" validate:"gte=0,lte=59"`
	Window      string `default:"week" validate:"oneof=day week month"`
}

// StorageSettings locate the database.
type StorageSettings struct {
	DB string `validate:"required"`
}

// LogSettings configure the logger.
type LogSettings struct {
	Level  string `default:"info" validate:"oneof=debug info warn error"`
	Format string `default:"json" validate:"oneof=console json"`
	Output string `validate:"required"`
}

// Defaults returns settings with every default applied.
func Defaults() (Settings, error) {
	s := Settings{
		Storage: StorageSettings{DB: DefaultDBPath()},
		Log:     LogSettings{Output: DefaultLogPath()},
	}
	if err := validation.SetDefaults(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Resolve overlays file values on top of the defaults and validates the result.
func Resolve(file FileConfig) (Settings, error) {
	s, err := Defaults()
	if err != nil {
		return Settings{}, err
	}
	setFloat(&s.Dial.Start, file.Dial.Start)
	setFloat(&s.Dial.End, file.Dial.End)
	if file.Dial.Days != nil {
		s.Dial.Days = append([]string{}, (*file.Dial.Days)...)
	}
	setBool(&s.Dial.Reminder, file.Dial.Reminder)
	setInt(&s.Dial.LeadMinutes, file.Dial.LeadMinutes)
	setInt(&s.Sleep.GoalHours, file.Sleep.GoalHours)
	setInt(&s.Sleep.GoalMinutes, file.Sleep.GoalMinutes)
	setString(&s.Sleep.Window, file.Sleep.Window)
	setString(&s.Storage.DB, file.Storage.DB)
	setString(&s.Log.Level, file.Log.Level)
	setString(&s.Log.Format, file.Log.Format)
	setString(&s.Log.Output, file.Log.Output)

	if err := s.Normalize(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Normalize expands paths and validates s. Call again after applying CLI flags.
func (s *Settings) Normalize() error {
	db, err := homedir.Expand(s.Storage.DB)
	if err != nil {
		return fmt.Errorf("%w: storage.db: %v", ErrInvalidConfig, err)
	}
	s.Storage.DB = db
	if s.Log.Output != "stdout" && s.Log.Output != "stderr" {
		out, err := homedir.Expand(s.Log.Output)
		if err != nil {
			return fmt.Errorf("%w: log.output: %v", ErrInvalidConfig, err)
		}
		s.Log.Output = out
	}
	s.Dial.Start = dial.Normalize(s.Dial.Start)
	s.Dial.End = dial.Normalize(s.Dial.End)
	if _, err := dial.ParseWeekdays(s.Dial.Days); err != nil {
		return fmt.Errorf("%w: dial.days: %v", ErrInvalidConfig, err)
	}
	if err := validation.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Weekdays returns the configured reminder days as a set.
func (s Settings) Weekdays() dial.WeekdaySet {
	days, err := dial.ParseWeekdays(s.Dial.Days)
	if err != nil {
		return dial.AllWeekdays()
	}
	return days
}

// Lead returns the reminder lead time.
func (s Settings) Lead() time.Duration {
	return time.Duration(s.Dial.LeadMinutes) * time.Minute
}

// Goal returns the nightly sleep goal in hours.
func (s Settings) Goal() float64 {
	return float64(s.Sleep.GoalHours) + float64(s.Sleep.GoalMinutes)/60
}

// TimeWindow returns the configured chart window.
func (s Settings) TimeWindow() dial.TimeWindow {
	w, err := dial.ParseTimeWindow(s.Sleep.Window)
	if err != nil {
		return dial.Week
	}
	return w
}

func setFloat(target *float64, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func setString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
