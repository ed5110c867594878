// Package dial models the circular bedtime/wake picker: two handles on a
// 24-hour dial, the wall-clock times they point at, the sleep duration between
// them and the weekly reminder triggers derived from the bedtime handle.
package dial

import (
	"math"
	"time"
)

// PointerCenter is the dial center in pointer coordinates, on both axes.
const PointerCenter = 15.0

const (
	degreesPerHour = 15.0
	maxMinute      = 55

	// DefaultLead is how long before bedtime a reminder fires.
	DefaultLead = 30 * time.Minute
)

// Handle identifies one of the two draggable dial markers.
type Handle int

const (
	// Start is the bedtime handle.
	Start Handle = iota
	// End is the wake-up handle.
	End
)

func (h Handle) String() string {
	if h == End {
		return "wake"
	}
	return "bedtime"
}

// Other returns the opposite handle.
func (h Handle) Other() Handle {
	if h == Start {
		return End
	}
	return Start
}

// TimeRange holds the two handle angles. Angles are always kept in [0,360).
type TimeRange struct {
	start float64
	end   float64
	lead  time.Duration
	now   func() time.Time
}

// Option configures a TimeRange.
type Option func(*TimeRange)

// WithClock overrides the wall clock used to date computed times.
func WithClock(now func() time.Time) Option {
	return func(r *TimeRange) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLead overrides the reminder lead time.
func WithLead(lead time.Duration) Option {
	return func(r *TimeRange) {
		if lead >= 0 {
			r.lead = lead
		}
	}
}

// New returns a TimeRange with both handles set to the given angles.
func New(start, end float64, opts ...Option) *TimeRange {
	r := &TimeRange{
		start: Normalize(start),
		end:   Normalize(end),
		lead:  DefaultLead,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize maps any angle into [0,360). Non-finite input maps to 0.
func Normalize(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// -tiny + 360 rounds to 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// Angle returns the handle's angle in degrees.
func (r *TimeRange) Angle(h Handle) float64 {
	if h == End {
		return r.end
	}
	return r.start
}

// Progress returns the handle's position as a fraction of a full turn.
func (r *TimeRange) Progress(h Handle) float64 {
	return r.Angle(h) / 360
}

// SetAngle moves a handle. The other handle is untouched.
func (r *TimeRange) SetAngle(h Handle, angle float64) {
	angle = Normalize(angle)
	if h == End {
		r.end = angle
		return
	}
	r.start = angle
}

// Lead returns the reminder lead time.
func (r *TimeRange) Lead() time.Duration {
	return r.lead
}

// Wraps reports whether the wake handle falls on the following day.
func (r *TimeRange) Wraps() bool {
	return r.start > r.end
}

// UpdateFromPointer sets a handle from pointer coordinates local to the dial.
func (r *TimeRange) UpdateFromPointer(x, y float64, h Handle) {
	r.SetAngle(h, PointerAngle(x, y))
}

// PointerAngle converts dial-local pointer coordinates into degrees in [0,360).
func PointerAngle(x, y float64) float64 {
	angle := math.Atan2(y-PointerCenter, x-PointerCenter) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return Normalize(angle)
}

// AngleToTime converts an angle into a wall-clock time on today's date. The
// wake handle's angle lands on tomorrow when the range wraps past midnight.
func (r *TimeRange) AngleToTime(angle float64) time.Time {
	return r.timeAt(angle, r.now())
}

// HandleTime returns the wall-clock time a handle points at.
func (r *TimeRange) HandleTime(h Handle) time.Time {
	return r.AngleToTime(r.Angle(h))
}

// Duration returns the hour/minute split between bedtime and wake time.
func (r *TimeRange) Duration() (hours, minutes int) {
	now := r.now()
	d := r.timeAt(r.end, now).Sub(r.timeAt(r.start, now))
	if d < 0 {
		return 0, 0
	}
	total := int(d / time.Minute)
	return total / 60, total % 60
}

// NotificationTriggers returns one trigger per selected day, firing the lead
// time before bedtime.
func (r *TimeRange) NotificationTriggers(days WeekdaySet) []Trigger {
	out := make([]Trigger, 0, days.Len())
	if days.Empty() {
		return out
	}
	at := r.HandleTime(Start).Add(-r.lead)
	hm := HourMinute{Hour: at.Hour(), Minute: at.Minute()}
	for _, day := range days.Days() {
		out = append(out, Trigger{Weekday: day, At: hm})
	}
	return out
}

func (r *TimeRange) timeAt(angle float64, now time.Time) time.Time {
	angle = Normalize(angle)
	hour, minute := Clock(angle)
	day := now.Day()
	if r.start > r.end && angle == r.end {
		day++
	}
	return time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, now.Location())
}

// Clock converts an angle into an hour and a minute on a 5-minute grid.
// Minutes are pinned at 55 instead of rolling into the next hour.
func Clock(angle float64) (hour, minute int) {
	progress := Normalize(angle) / degreesPerHour
	whole, frac := math.Modf(progress)
	hour = int(whole)
	minute = int(math.Round(frac*12)) * 5
	if minute > maxMinute {
		minute = maxMinute
	}
	if hour == 24 {
		hour = 0
	}
	return hour, minute
}

// AngleFor returns the angle that points at the given clock time.
func AngleFor(hour, minute int) float64 {
	return Normalize(float64(hour)*degreesPerHour + float64(minute)*degreesPerHour/60)
}
