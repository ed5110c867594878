package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

const (
	defaultRadius = 8
	minRadius     = 4
	maxRadius     = 12
	labelInset    = 2

	bedtimeGlyph = "☾"
	wakeGlyph    = "☀"
	arcGlyph     = "█"
	ringGlyph    = "·"
)

// cell is one terminal cell of the dial canvas. Wide glyphs occupy their
// cell plus a zero-width placeholder to the right.
type cell struct {
	s     string
	width int
}

type canvas struct {
	cells [][]cell
}

func newCanvas(width, height int) *canvas {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{s: " ", width: 1}
		}
	}
	return &canvas{cells: cells}
}

func (c *canvas) set(row, col int, glyph string, style lipgloss.Style) {
	if row < 0 || row >= len(c.cells) || col < 0 || col >= len(c.cells[row]) {
		return
	}
	w := runewidth.StringWidth(glyph)
	if w > 1 && col+1 >= len(c.cells[row]) {
		return
	}
	c.cells[row][col] = cell{s: style.Render(glyph), width: w}
	if w > 1 {
		c.cells[row][col+1] = cell{}
	}
}

func (c *canvas) text(row, col int, s string, style lipgloss.Style) {
	for _, r := range s {
		c.set(row, col, string(r), style)
		col += maxInt(1, runewidth.RuneWidth(r))
	}
}

func (c *canvas) String() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for _, item := range row {
			if item.width == 0 {
				continue
			}
			b.WriteString(item.s)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// dialGeometry places a dial of the given radius on screen. Terminal cells
// are about twice as tall as wide, so columns are scaled by two.
type dialGeometry struct {
	radius  int
	originX int
	originY int
}

func (g dialGeometry) size() (width, height int) {
	return 4*g.radius + 1, 2*g.radius + 1
}

func (g dialGeometry) center() (cx, cy int) {
	return 2 * g.radius, g.radius
}

func (g dialGeometry) contains(x, y int) bool {
	w, h := g.size()
	x -= g.originX
	y -= g.originY
	return x >= 0 && x < w && y >= 0 && y < h
}

// cellAt returns the canvas cell for an angle at distance rr from the center.
func (g dialGeometry) cellAt(angle, rr float64) (col, row int) {
	cx, cy := g.center()
	rad := angle * math.Pi / 180
	col = cx + int(math.Round(2*rr*math.Sin(rad)))
	row = cy - int(math.Round(rr*math.Cos(rad)))
	return col, row
}

// pointer maps a screen cell to dial-local pointer coordinates. The pointer
// frame has 0 degrees at the top and grows clockwise.
func (g dialGeometry) pointer(x, y int) (px, py float64) {
	cx, cy := g.center()
	dx := float64(x-g.originX-cx) / 2
	dy := float64(y - g.originY - cy)
	return dial.PointerCenter - dy, dial.PointerCenter + dx
}

func (g dialGeometry) canvasAngle(col, row int) (angle, dist float64) {
	cx, cy := g.center()
	dx := float64(col-cx) / 2
	dy := float64(row - cy)
	return dial.PointerAngle(dial.PointerCenter-dy, dial.PointerCenter+dx), math.Hypot(dx, dy)
}

// inArc reports whether angle lies on the clockwise sweep from start to end.
func inArc(angle, start, end float64) bool {
	if start <= end {
		return angle >= start && angle <= end
	}
	return angle >= start || angle <= end
}

func angularDistance(a, b float64) float64 {
	d := math.Abs(dial.Normalize(a) - dial.Normalize(b))
	return math.Min(d, 360-d)
}

// nearestHandle picks the handle closest to angle. Ties go to bedtime.
func nearestHandle(rng *dial.TimeRange, angle float64) dial.Handle {
	if angularDistance(angle, rng.Angle(dial.End)) < angularDistance(angle, rng.Angle(dial.Start)) {
		return dial.End
	}
	return dial.Start
}

func renderDial(rng *dial.TimeRange, g dialGeometry, focus dial.Handle) string {
	width, height := g.size()
	c := newCanvas(width, height)
	start, end := rng.Angle(dial.Start), rng.Angle(dial.End)
	radius := float64(g.radius)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			angle, dist := g.canvasAngle(col, row)
			if math.Abs(dist-radius) > 0.5 {
				continue
			}
			if inArc(angle, start, end) {
				c.set(row, col, arcGlyph, arcStyle)
			} else {
				c.set(row, col, ringGlyph, ringStyle)
			}
		}
	}

	if g.radius > labelInset+1 {
		for h := 0; h < 24; h += 3 {
			label := fmt.Sprintf("%d", h)
			col, row := g.cellAt(dial.AngleFor(h, 0), radius-labelInset)
			c.text(row, col-(len(label)-1)/2, label, labelStyle)
		}
	}

	hours, minutes := rng.Duration()
	cx, cy := g.center()
	readout := fmt.Sprintf("%dh %02dm", hours, minutes)
	c.text(cy, cx-runewidth.StringWidth(readout)/2, readout, titleStyle)

	for _, h := range []dial.Handle{dial.End, dial.Start} {
		glyph := bedtimeGlyph
		if h == dial.End {
			glyph = wakeGlyph
		}
		style := handleStyle
		if h == focus {
			style = focusStyle
		}
		col, row := g.cellAt(rng.Angle(h), radius)
		c.set(row, col, glyph, style)
	}
	return c.String()
}

// radiusFor fits the dial into the available body.
func radiusFor(width, height int) int {
	if width <= 0 || height <= 0 {
		return defaultRadius
	}
	r := minInt((height-1)/2, (width-1)/4)
	if r < minRadius {
		return minRadius
	}
	if r > maxRadius {
		return maxRadius
	}
	return r
}
