package dial

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownWindow is returned when a time window name cannot be parsed.
var ErrUnknownWindow = errors.New("dial: unknown time window")

// SleepSample is one night of recorded sleep.
type SleepSample struct {
	ID            string
	Date          time.Time
	DurationHours float64
}

// NewSample returns a sample with a fresh id.
func NewSample(date time.Time, hours float64) SleepSample {
	if hours < 0 {
		hours = 0
	}
	return SleepSample{
		ID:            uuid.NewString(),
		Date:          date,
		DurationHours: hours,
	}
}

// TimeWindow selects how far back the sample history reaches.
type TimeWindow int

const (
	Day TimeWindow = iota
	Week
	Month
)

// Windows returns every time window in selector order.
func Windows() []TimeWindow {
	return []TimeWindow{Day, Week, Month}
}

func (w TimeWindow) String() string {
	switch w {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return fmt.Sprintf("TimeWindow(%d)", int(w))
	}
}

// ParseTimeWindow parses "day", "week" or "month".
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "d":
		return Day, nil
	case "week", "w":
		return Week, nil
	case "month", "m":
		return Month, nil
	}
	return Week, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
}

// WindowStart returns the exclusive lower bound of a window ending at now.
func WindowStart(window TimeWindow, now time.Time) time.Time {
	switch window {
	case Day:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case Month:
		return addMonthsClamped(now, -1)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// FilterSamples returns the samples that fall inside the window ending at now.
// Day keeps samples on now's calendar day; Week and Month keep samples
// strictly between the window start and now. The input is not modified.
func FilterSamples(samples []SleepSample, window TimeWindow, now time.Time) []SleepSample {
	out := make([]SleepSample, 0, len(samples))
	for _, s := range samples {
		if inWindow(s.Date, window, now) {
			out = append(out, s)
		}
	}
	return out
}

func inWindow(date time.Time, window TimeWindow, now time.Time) bool {
	if window == Day {
		return sameDay(date, now)
	}
	from := WindowStart(window, now)
	return date.After(from) && date.Before(now)
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// addMonthsClamped shifts t by n months, clamping the day to the target
// month's last day (Mar 31 minus one month is Feb 28/29, not Mar 3).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
