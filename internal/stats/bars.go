package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

const (
	barWidth      = 5
	barGap        = 1
	barDateLayout = "01/02"
	goalDash      = '-'
	colorGood     = "\x1b[32m"
	colorShort    = "\x1b[33m"
)

var barEighths = []rune(" ▁▂▃▄▅▆▇█")

// RenderBarChart draws one bar per sample ordered by date, with a dashed rule
// at the goal. When the samples do not fit in width the most recent are shown.
func RenderBarChart(w io.Writer, title string, samples []dial.SleepSample, goal float64, width, height int, forceColor bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No sleep samples.")
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}

	ordered := sortedByDate(samples)
	fit := (width + barGap) / (barWidth + barGap)
	if fit < 1 {
		fit = 1
	}
	if len(ordered) > fit {
		ordered = ordered[len(ordered)-fit:]
	}

	values := make([]float64, len(ordered))
	for i, s := range ordered {
		values[i] = s.DurationHours
	}
	top := DomainMax(append(values, goal)...)
	useColor := shouldUseColor(w, forceColor)
	rowSpan := top / float64(height)
	goalRow := -1
	if goal > 0 {
		goalRow = height - 1 - int(goal/rowSpan)
		if goalRow < 0 {
			goalRow = 0
		}
	}

	for r := 0; r < height; r++ {
		lo := top * float64(height-1-r) / float64(height)
		hi := lo + rowSpan
		label := ""
		switch r {
		case 0:
			label = formatAxisHours(top)
		case goalRow:
			label = formatAxisHours(goal)
		}
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(label, axisLabelWidth))
		row.WriteString(axisSeparator)
		col := 0
		for i, v := range values {
			if i > 0 {
				for g := 0; g < barGap; g++ {
					row.WriteRune(ruleOrBlank(r == goalRow, col))
					col++
				}
			}
			cell := barCell(v, lo, hi)
			color := ""
			if useColor && cell != ' ' {
				color = colorShort
				if v >= goal {
					color = colorGood
				}
				row.WriteString(color)
			}
			for b := 0; b < barWidth; b++ {
				if cell == ' ' {
					row.WriteRune(ruleOrBlank(r == goalRow, col))
				} else {
					row.WriteRune(cell)
				}
				col++
			}
			if color != "" {
				row.WriteString(colorReset)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}

	axisWidth := len(values)*barWidth + (len(values)-1)*barGap
	base := runewidth.FillLeft(formatAxisHours(0), axisLabelWidth) + " └" + strings.Repeat("─", axisWidth+1)
	if _, err := fmt.Fprintln(w, base); err != nil {
		return err
	}
	labels := make([]string, len(ordered))
	for i, s := range ordered {
		labels[i] = runewidth.FillRight(s.Date.Format(barDateLayout), barWidth)
	}
	indent := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))
	if _, err := fmt.Fprintln(w, indent+strings.Join(labels, strings.Repeat(" ", barGap))); err != nil {
		return err
	}
	if goal > 0 {
		if _, err := fmt.Fprintf(w, "%s goal %s\n", strings.Repeat(string(goalDash), 3), FormatHours(goal)); err != nil {
			return err
		}
	}
	return nil
}

// barCell picks the block glyph for a bar of height v inside the band [lo,hi).
func barCell(v, lo, hi float64) rune {
	if v >= hi {
		return barEighths[len(barEighths)-1]
	}
	if v <= lo {
		return ' '
	}
	idx := int((v - lo) / (hi - lo) * 8)
	if idx < 1 {
		idx = 1
	}
	if idx > 8 {
		idx = 8
	}
	return barEighths[idx]
}

func ruleOrBlank(rule bool, col int) rune {
	if rule && col%2 == 0 {
		return goalDash
	}
	return ' '
}

func sortedByDate(samples []dial.SleepSample) []dial.SleepSample {
	out := make([]dial.SleepSample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
