package dial

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownWeekday is returned when a weekday name cannot be parsed.
var ErrUnknownWeekday = errors.New("dial: unknown weekday")

// Weekday uses the 1-based convention Sunday=1 .. Saturday=7.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]struct {
	id      string
	initial string
}{
	Sunday:    {"Sun", "S"},
	Monday:    {"Mon", "M"},
	Tuesday:   {"Tue", "T"},
	Wednesday: {"Wed", "W"},
	Thursday:  {"Thu", "Th"},
	Friday:    {"Fri", "F"},
	Saturday:  {"Sat", "S"},
}

// Weekdays returns every weekday in display order (Monday first).
func Weekdays() []Weekday {
	return append([]Weekday(nil), weekdayOrder...)
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Code returns the 1-based weekday number.
func (d Weekday) Code() int {
	return int(d)
}

func (d Weekday) String() string {
	if n, ok := weekdayNames[d]; ok {
		return n.id
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// Initial returns the short label shown on day toggles.
func (d Weekday) Initial() string {
	if n, ok := weekdayNames[d]; ok {
		return n.initial
	}
	return "?"
}

// TimeWeekday converts to the standard library weekday.
func (d Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(d - 1)
}

// FromTimeWeekday converts from the standard library weekday.
func FromTimeWeekday(w time.Weekday) Weekday {
	return Weekday(w + 1)
}

// ParseWeekday accepts short or long English names, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for _, d := range weekdayOrder {
			id := strings.ToLower(weekdayNames[d].id)
			full := strings.ToLower(d.TimeWeekday().String())
			if s == id || s == full {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdaySet is a set of weekdays stored as a bitmask.
type WeekdaySet uint8

// NewWeekdaySet builds a set from the given days. Invalid days are ignored.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// AllWeekdays returns a set containing every day.
func AllWeekdays() WeekdaySet {
	return NewWeekdaySet(weekdayOrder...)
}

func bit(d Weekday) WeekdaySet {
	return 1 << uint(d-1)
}

// Has reports whether d is in the set.
func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&bit(d) != 0
}

// With returns the set with d added.
func (s WeekdaySet) With(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | bit(d)
}

// Without returns the set with d removed.
func (s WeekdaySet) Without(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s &^ bit(d)
}

// Toggle flips membership of d.
func (s WeekdaySet) Toggle(d Weekday) WeekdaySet {
	if s.Has(d) {
		return s.Without(d)
	}
	return s.With(d)
}

// Len returns the number of selected days.
func (s WeekdaySet) Len() int {
	n := 0
	for _, d := range weekdayOrder {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Empty reports whether no day is selected.
func (s WeekdaySet) Empty() bool {
	return s.Len() == 0
}

// Days returns the selected days in display order.
func (s WeekdaySet) Days() []Weekday {
	out := make([]Weekday, 0, 7)
	for _, d := range weekdayOrder {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Strings returns the selected day identifiers in display order.
func (s WeekdaySet) Strings() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

func (s WeekdaySet) String() string {
	return strings.Join(s.Strings(), ",")
}

// ParseWeekdays parses a list of day names.
func ParseWeekdays(values []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		d, err := ParseWeekday(v)
		if err != nil {
			return 0, err
		}
		s = s.With(d)
	}
	return s, nil
}

// ParseWeekdayList parses a comma separated list. "all" and "none" are accepted.
func ParseWeekdayList(s string) (WeekdaySet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "daily", "everyday":
		return AllWeekdays(), nil
	case "", "none":
		return 0, nil
	}
	return ParseWeekdays(strings.Split(s, ","))
}

// HourMinute is a time of day without a date.
type HourMinute struct {
	Hour   int
	Minute int
}

func (hm HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", hm.Hour, hm.Minute)
}

// Trigger pairs a weekday with the time a reminder should fire on it.
type Trigger struct {
	Weekday Weekday
	At      HourMinute
}

func (t Trigger) String() string {
	return fmt.Sprintf("%s %s", t.Weekday, t.At)
}

// FormatClock renders a time as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
