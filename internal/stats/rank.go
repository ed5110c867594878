package stats

import (
	"sort"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

// ShortestNights returns up to n samples below goal, shortest first.
func ShortestNights(samples []dial.SleepSample, goal float64, n int) []dial.SleepSample {
	if n <= 0 || len(samples) == 0 {
		return nil
	}
	candidates := make([]dial.SleepSample, 0, len(samples))
	for _, s := range samples {
		if s.DurationHours < goal {
			candidates = append(candidates, s)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DurationHours == candidates[j].DurationHours {
			return candidates[i].Date.Before(candidates[j].Date)
		}
		return candidates[i].DurationHours < candidates[j].DurationHours
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// WeekdayAverages returns the mean duration per weekday in display order.
// Weekdays without samples are omitted.
func WeekdayAverages(samples []dial.SleepSample) []WeekdayAverage {
	sums := map[dial.Weekday]float64{}
	counts := map[dial.Weekday]int{}
	for _, s := range samples {
		d := dial.FromTimeWeekday(s.Date.Weekday())
		sums[d] += s.DurationHours
		counts[d]++
	}
	out := make([]WeekdayAverage, 0, len(counts))
	for _, d := range dial.Weekdays() {
		if counts[d] == 0 {
			continue
		}
		out = append(out, WeekdayAverage{Weekday: d, Hours: sums[d] / float64(counts[d]), Nights: counts[d]})
	}
	return out
}

// WeekdayAverage is the mean duration for one weekday.
type WeekdayAverage struct {
	Weekday dial.Weekday
	Hours   float64
	Nights  int
}
