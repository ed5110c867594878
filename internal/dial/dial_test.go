package dial

import (
	"math"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 10, 18, 14, 7, 33, 0, time.UTC)
	return func() time.Time { return now }
}

func TestClockStaysOnFiveMinuteGrid(t *testing.T) {
	for a := -720.0; a < 1080; a += 0.37 {
		hour, minute := Clock(a)
		if hour < 0 || hour > 23 {
			t.Fatalf("angle %.2f: hour out of range: %d", a, hour)
		}
		if minute%5 != 0 || minute < 0 || minute > 55 {
			t.Fatalf("angle %.2f: unexpected minute %d", a, minute)
		}
	}
}

func TestClockPinsMinuteAtFiftyFive(t *testing.T) {
	cases := []struct {
		angle  float64
		hour   int
		minute int
	}{
		{angle: 0, hour: 0, minute: 0},
		{angle: 14.9, hour: 0, minute: 55},
		{angle: 29.9, hour: 1, minute: 55},
		{angle: 30, hour: 2, minute: 0},
		{angle: 180, hour: 12, minute: 0},
		{angle: 352.5, hour: 23, minute: 30},
		{angle: 359.99, hour: 23, minute: 55},
	}
	for _, tc := range cases {
		hour, minute := Clock(tc.angle)
		if hour != tc.hour || minute != tc.minute {
			t.Fatalf("angle %.2f: expected %02d:%02d, got %02d:%02d", tc.angle, tc.hour, tc.minute, hour, minute)
		}
	}
}

func TestAngleToTimeIsPeriodic(t *testing.T) {
	r := New(0, 180, WithClock(fixedClock()))
	for a := 0.0; a < 1500; a += 11.3 {
		got := r.AngleToTime(a)
		want := r.AngleToTime(math.Mod(a, 360))
		if !got.Equal(want) {
			t.Fatalf("angle %.1f: %v != %v", a, got, want)
		}
	}
}

func TestAngleToTimeMidnightAndNoon(t *testing.T) {
	r := New(0, 180, WithClock(fixedClock()))
	midnight := r.AngleToTime(0)
	if midnight.Hour() != 0 || midnight.Minute() != 0 || midnight.Second() != 0 {
		t.Fatalf("expected midnight, got %v", midnight)
	}
	if midnight.Day() != 18 {
		t.Fatalf("expected today, got %v", midnight)
	}
	noon := r.AngleToTime(180)
	if noon.Hour() != 12 || noon.Minute() != 0 {
		t.Fatalf("expected noon, got %v", noon)
	}
	if noon.Day() != 18 {
		t.Fatalf("expected today for non-wrapped wake time, got %v", noon)
	}
}

func TestAngleToTimeWrapsPastMidnight(t *testing.T) {
	r := New(350, 10, WithClock(fixedClock()))
	start := r.AngleToTime(350)
	end := r.AngleToTime(10)
	wantY, wantM, wantD := start.AddDate(0, 0, 1).Date()
	y, m, d := end.Date()
	if y != wantY || m != wantM || d != wantD {
		t.Fatalf("expected wake date %d-%02d-%02d, got %v", wantY, wantM, wantD, end)
	}
	if !r.Wraps() {
		t.Fatalf("expected range to wrap")
	}
}

func TestAngleToTimeWrapAcrossMonthEnd(t *testing.T) {
	now := time.Date(2026, 1, 31, 20, 0, 0, 0, time.UTC)
	r := New(330, 90, WithClock(func() time.Time { return now }))
	wake := r.HandleTime(End)
	if wake.Month() != time.February || wake.Day() != 1 {
		t.Fatalf("expected Feb 1, got %v", wake)
	}
}

func TestUpdateFromPointerIsIdempotent(t *testing.T) {
	r := New(0, 180)
	r.UpdateFromPointer(42, 3, Start)
	first := r.Angle(Start)
	r.UpdateFromPointer(42, 3, Start)
	if r.Angle(Start) != first {
		t.Fatalf("angle drifted: %v -> %v", first, r.Angle(Start))
	}
	if r.Angle(End) != 180 {
		t.Fatalf("end handle changed: %v", r.Angle(End))
	}
	if math.Abs(r.Progress(Start)-first/360) > 1e-12 {
		t.Fatalf("progress out of sync: %v", r.Progress(Start))
	}
}

func TestPointerAngle(t *testing.T) {
	cases := []struct {
		x, y float64
		want float64
	}{
		{x: 30, y: 15, want: 0},
		{x: 15, y: 30, want: 90},
		{x: 0, y: 15, want: 180},
		{x: 15, y: 0, want: 270},
	}
	for _, tc := range cases {
		got := PointerAngle(tc.x, tc.y)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("(%v,%v): expected %v, got %v", tc.x, tc.y, tc.want, got)
		}
		if got < 0 || got >= 360 {
			t.Fatalf("(%v,%v): angle not normalized: %v", tc.x, tc.y, got)
		}
	}
}

func TestSetAngleNormalizes(t *testing.T) {
	r := New(-30, 725)
	if r.Angle(Start) != 330 {
		t.Fatalf("expected 330, got %v", r.Angle(Start))
	}
	if r.Angle(End) != 5 {
		t.Fatalf("expected 5, got %v", r.Angle(End))
	}
	r.SetAngle(End, -1e-18)
	if a := r.Angle(End); a < 0 || a >= 360 {
		t.Fatalf("angle not normalized: %v", a)
	}
}

func TestDurationWrapAround(t *testing.T) {
	r := New(330, 90, WithClock(fixedClock()))
	h, m := r.Duration()
	if h != 8 || m != 0 {
		t.Fatalf("expected 8h0m, got %dh%dm", h, m)
	}
	r = New(0, 180, WithClock(fixedClock()))
	h, m = r.Duration()
	if h != 12 || m != 0 {
		t.Fatalf("expected 12h0m, got %dh%dm", h, m)
	}
}

func TestDurationNeverNegative(t *testing.T) {
	r := New(0, 0, WithClock(fixedClock()))
	for s := 0.0; s < 360; s += 7.3 {
		for e := 0.0; e < 360; e += 6.1 {
			r.SetAngle(Start, s)
			r.SetAngle(End, e)
			h, m := r.Duration()
			if h < 0 || m < 0 || m > 59 || h > 24 {
				t.Fatalf("start %.1f end %.1f: got %dh%dm", s, e, h, m)
			}
		}
	}
}

func TestNotificationTriggers(t *testing.T) {
	r := New(345, 90, WithClock(fixedClock()))
	if got := r.HandleTime(Start); got.Hour() != 23 || got.Minute() != 0 {
		t.Fatalf("expected bedtime 23:00, got %v", got)
	}
	triggers := r.NotificationTriggers(NewWeekdaySet(Monday, Wednesday))
	if len(triggers) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(triggers))
	}
	wantCodes := []int{2, 4}
	for i, tr := range triggers {
		if tr.At != (HourMinute{Hour: 22, Minute: 30}) {
			t.Fatalf("trigger %d: expected 22:30, got %s", i, tr.At)
		}
		if tr.Weekday.Code() != wantCodes[i] {
			t.Fatalf("trigger %d: expected code %d, got %d", i, wantCodes[i], tr.Weekday.Code())
		}
	}
	if got := r.NotificationTriggers(NewWeekdaySet()); len(got) != 0 {
		t.Fatalf("expected no triggers, got %v", got)
	}
}

func TestNotificationTriggersCrossMidnight(t *testing.T) {
	r := New(0, 120, WithClock(fixedClock()))
	triggers := r.NotificationTriggers(NewWeekdaySet(Sunday))
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggers))
	}
	if triggers[0].At.String() != "23:30" || triggers[0].Weekday.Code() != 1 {
		t.Fatalf("unexpected trigger: %s (code %d)", triggers[0], triggers[0].Weekday.Code())
	}
}

func TestWithLead(t *testing.T) {
	r := New(345, 90, WithClock(fixedClock()), WithLead(time.Hour))
	triggers := r.NotificationTriggers(NewWeekdaySet(Friday))
	if triggers[0].At.String() != "22:00" {
		t.Fatalf("expected 22:00, got %s", triggers[0].At)
	}
}

func TestAngleForRoundTrips(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 5 {
			h, m := Clock(AngleFor(hour, minute))
			if h != hour || m != minute {
				t.Fatalf("%02d:%02d came back as %02d:%02d", hour, minute, h, m)
			}
		}
	}
}
