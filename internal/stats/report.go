package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

const (
	trendWindow      = 3
	shortestListSize = 3
)

// SampleLister loads stored samples.
type SampleLister interface {
	ListSamples(ctx context.Context, since *time.Time) ([]dial.SleepSample, error)
}

// Report contains precomputed data for chart rendering.
type Report struct {
	Window  dial.TimeWindow
	Now     time.Time
	Samples []dial.SleepSample
	Summary Summary
}

// BuildReport loads samples for the window ending at now.
func BuildReport(ctx context.Context, st SampleLister, window dial.TimeWindow, now time.Time, goal float64) (Report, error) {
	since := dial.WindowStart(window, now)
	samples, err := st.ListSamples(ctx, &since)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list samples: %w", err)
	}
	samples = dial.FilterSamples(samples, window, now)
	return Report{
		Window:  window,
		Now:     now,
		Samples: samples,
		Summary: Summarize(samples, goal),
	}, nil
}

// Title names the report window.
func (r Report) Title() string {
	switch r.Window {
	case dial.Day:
		return "Sleep today"
	case dial.Month:
		return "Sleep this month"
	default:
		return "Sleep this week"
	}
}

// Render writes the summary, the charts, per-night and per-weekday tables, and
// the shortest nights.
func (r Report) Render(w io.Writer, totalWidth, height int, useColor bool) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if len(r.Samples) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := RenderBarChart(w, r.Title(), r.Samples, r.Summary.Goal, width, height, useColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Samples, r.Summary.Goal, trendWindow, totalWidth, height, useColor); err != nil {
		return err
	}
	if err := RenderSampleTable(w, r.Samples, r.Summary.Goal); err != nil {
		return err
	}
	if err := renderWeekdayAverages(w, WeekdayAverages(r.Samples)); err != nil {
		return err
	}
	short := ShortestNights(r.Samples, r.Summary.Goal, shortestListSize)
	if len(short) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Shortest nights"); err != nil {
		return err
	}
	for _, s := range short {
		if _, err := fmt.Fprintf(w, "  %s  %s\n", s.Date.Format("Mon 01/02"), FormatHours(s.DurationHours)); err != nil {
			return err
		}
	}
	return nil
}

func renderWeekdayAverages(w io.Writer, avgs []WeekdayAverage) error {
	if len(avgs) < 2 {
		return nil
	}
	tbl := newTextTable("Weekday", "Average", "Nights").alignRight(1, 2)
	for _, a := range avgs {
		tbl.add(a.Weekday.String(), FormatHours(a.Hours), fmt.Sprintf("%d", a.Nights))
	}
	if _, err := fmt.Fprintln(w, "By weekday"); err != nil {
		return err
	}
	if err := tbl.writeTo(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
