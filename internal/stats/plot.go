// Package stats summarizes sleep history and renders it as text charts.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named line on a trend plot.
type Series struct {
	Name   string
	Values []float64
}

// dash draws on dots of x where x%period < on.
type dash struct {
	name       string
	period, on int
}

func (d dash) keep(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 5
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80

	// Charts never scale below an 8 hour ceiling.
	minDomainHours = 8.0
)

var (
	dashes  = []dash{{"solid", 1, 1}, {"dashed", 6, 3}, {"dotted", 4, 1}}
	palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}
)

// DomainMax returns the top of the hours axis: the tallest value rounded up,
// but never below 8.
func DomainMax(values ...float64) float64 {
	top := minDomainHours
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		top = math.Max(top, math.Ceil(v))
	}
	return top
}

// PlotTrend renders series as braille lines sharing one 0..max hours axis.
// Series are told apart by dash pattern and, with colour, by palette.
func PlotTrend(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var plotted []Series
	var all []float64
	for _, s := range series {
		if len(s.Values) > 0 {
			plotted = append(plotted, s)
			all = append(all, s.Values...)
		}
	}
	if len(plotted) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	width = max(width, minPlotWidth)
	top := DomainMax(all...)

	grids := make([]*brailleGrid, len(plotted))
	for i, s := range plotted {
		g := newBrailleGrid(width, height)
		style := dashes[i%len(dashes)]
		prevX, prevY := -1, -1
		for x, v := range resample(s.Values, width) {
			px, py := x*2, hoursToDot(v, top, g.dotsHigh())
			if prevX < 0 {
				prevX, prevY = px, py
			}
			g.line(prevX, prevY, px, py, style.keep)
			prevX, prevY = px, py
		}
		grids[i] = g
	}

	useColor := shouldUseColor(w, forceColor)
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	labels := axisLabels(height, top)
	for row := 0; row < height; row++ {
		b.WriteString(runewidth.FillLeft(labels[row], axisLabelWidth))
		b.WriteString(axisSeparator)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for i, g := range grids {
				if m := g.mask(col, row); m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			if useColor && owner >= 0 {
				b.WriteString(palette[owner%len(palette)] + string(brailleRune(mask)) + colorReset)
			} else {
				b.WriteRune(brailleRune(mask))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(legend(plotted, useColor) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(minPlotWidth, totalWidth-axisLabelWidth-runewidth.StringWidth(axisSeparator))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// axisLabels labels the top, middle and bottom rows with hours.
func axisLabels(height int, top float64) []string {
	labels := make([]string, height)
	if height == 0 {
		return labels
	}
	labels[0] = formatAxisHours(top)
	if height > 2 {
		mid := height / 2
		labels[mid] = formatAxisHours(top * float64(height-1-mid) / float64(height-1))
	}
	if height > 1 {
		labels[height-1] = formatAxisHours(0)
	}
	return labels
}

func formatAxisHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%.0fh", h)
	}
	return fmt.Sprintf("%.1fh", h)
}

// resample maps values onto n points: buckets are averaged when there are
// more values than points, otherwise neighbours are interpolated.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) >= n:
		for i := range out {
			lo, hi := i*len(values)/n, (i+1)*len(values)/n
			hi = max(hi, lo+1)
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(n-1)
			idx := min(int(pos), last-1)
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// hoursToDot maps hours in [0, top] to a dot row, 0 at the top.
func hoursToDot(v, top float64, dots int) int {
	if dots <= 1 || top <= 0 {
		return 0
	}
	row := int(math.Round((1 - v/top) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", brailleRune(0x01), s.Name, dashes[i%len(dashes)].name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}
