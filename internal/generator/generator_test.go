package generator

import (
	"testing"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

func TestWeek(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	samples := Week(now)
	if len(samples) != 7 {
		t.Fatalf("expected 7 samples, got %d", len(samples))
	}
	want := []float64{7.0, 6.5, 8.0, 7.5, 7.8, 7.2, 9.0}
	ids := map[string]bool{}
	for i, s := range samples {
		if s.DurationHours != want[i] {
			t.Fatalf("sample %d: expected %v hours, got %v", i, want[i], s.DurationHours)
		}
		if !s.Date.Equal(now.AddDate(0, 0, -(6 - i))) {
			t.Fatalf("sample %d: unexpected date %s", i, s.Date)
		}
		ids[s.ID] = true
	}
	if len(ids) != 7 {
		t.Fatalf("expected unique ids")
	}
	if got := dial.FilterSamples(samples, dial.Day, now); len(got) != 1 || got[0].DurationHours != 9 {
		t.Fatalf("expected today's sample only, got %+v", got)
	}
}

func TestRandomIsDeterministicAndBounded(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	a := NewSeeded(42).Random(now, 30, 7.5, 3)
	b := NewSeeded(42).Random(now, 30, 7.5, 3)
	if len(a) != 30 || len(b) != 30 {
		t.Fatalf("expected 30 samples, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].DurationHours != b[i].DurationHours {
			t.Fatalf("sample %d differs between equal seeds", i)
		}
		h := a[i].DurationHours
		if h < 0 || h > 24 {
			t.Fatalf("sample %d out of range: %v", i, h)
		}
		if h*4 != float64(int(h*4)) {
			t.Fatalf("sample %d not on a quarter hour: %v", i, h)
		}
	}
	if !a[29].Date.Equal(now) || !a[0].Date.Equal(now.AddDate(0, 0, -29)) {
		t.Fatalf("unexpected date range: %s .. %s", a[0].Date, a[29].Date)
	}
	if got := NewSeeded(1).Random(now, 0, 7, 1); got != nil {
		t.Fatalf("expected nil for zero days")
	}
}
