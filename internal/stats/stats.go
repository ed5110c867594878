package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of nights against a sleep goal.
type Summary struct {
	Count   int
	Total   float64
	Average float64
	Best    float64
	Worst   float64
	Goal    float64
	MetGoal int
}

// Summarize computes totals and extremes for the samples.
func Summarize(samples []dial.SleepSample, goal float64) Summary {
	s := Summary{Goal: goal}
	for i, sample := range samples {
		h := sample.DurationHours
		s.Total += h
		if i == 0 || h > s.Best {
			s.Best = h
		}
		if i == 0 || h < s.Worst {
			s.Worst = h
		}
		if h >= goal {
			s.MetGoal++
		}
	}
	s.Count = len(samples)
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s
}

// GoalRate returns the fraction of nights that met the goal.
func (s Summary) GoalRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.MetGoal) / float64(s.Count)
}

// FormatHours renders fractional hours as "7h 30m".
func FormatHours(h float64) string {
	if h < 0 || math.IsNaN(h) {
		h = 0
	}
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Durations returns the sample durations in date order.
func Durations(samples []dial.SleepSample) []float64 {
	ordered := sortedByDate(samples)
	out := make([]float64, len(ordered))
	for i, s := range ordered {
		out[i] = s.DurationHours
	}
	return out
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Count == 0 {
		_, err := fmt.Fprintln(w, "No sleep samples.")
		return err
	}
	tbl := newTextTable().alignRight(1)
	tbl.add("Nights", fmt.Sprintf("%d", s.Count))
	tbl.add("Average", FormatHours(s.Average))
	tbl.add("Best", FormatHours(s.Best))
	tbl.add("Worst", FormatHours(s.Worst))
	tbl.add("Goal", FormatHours(s.Goal))
	tbl.add("Met goal", fmt.Sprintf("%d (%.0f%%)", s.MetGoal, s.GoalRate()*100))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if err := tbl.writeTo(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSampleTable prints one row per sample in date order.
func RenderSampleTable(w io.Writer, samples []dial.SleepSample, goal float64) error {
	if len(samples) == 0 {
		return nil
	}
	tbl := newTextTable("Date", "Day", "Slept", "Goal", "ID").alignRight(2)
	for _, s := range sortedByDate(samples) {
		met := "no"
		if s.DurationHours >= goal {
			met = "yes"
		}
		tbl.add(
			s.Date.Format("2006-01-02"),
			dial.FromTimeWeekday(s.Date.Weekday()).String(),
			FormatHours(s.DurationHours),
			met,
			shortID(s.ID),
		)
	}
	if err := tbl.writeTo(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend plots nightly durations with a rolling average and the goal.
func RenderTrend(w io.Writer, samples []dial.SleepSample, goal float64, window, totalWidth, height int, useColor bool) error {
	if len(samples) < 2 {
		return nil
	}
	durations := Durations(samples)
	goalLine := make([]float64, len(durations))
	for i := range goalLine {
		goalLine[i] = goal
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotTrend(w, "Trend", []Series{
		{Name: "Slept", Values: durations},
		{Name: fmt.Sprintf("%d-night avg", window), Values: MovingAverage(durations, window)},
		{Name: "Goal", Values: goalLine},
	}, width, height, useColor)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
