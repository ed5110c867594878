package stats

// brailleGrid is a dot raster drawn with braille characters. Each terminal
// cell holds 2x4 dots.
type brailleGrid struct {
	cols, rows int
	cells      []uint8
}

// Dot bits indexed by [dot column][dot row] inside one cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func newBrailleGrid(cols, rows int) *brailleGrid {
	return &brailleGrid{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// dotsHigh is the vertical resolution in dots.
func (g *brailleGrid) dotsHigh() int {
	return g.rows * 4
}

func (g *brailleGrid) dot(x, y int) {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.cells[row*g.cols+col] |= brailleBits[x%2][y%4]
}

// line joins two dots with Bresenham's algorithm. keep filters dots by x to
// draw dashed patterns.
func (g *brailleGrid) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}
	dy = -dy
	err := dx + dy
	for {
		if keep(x0) {
			g.dot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *brailleGrid) mask(col, row int) uint8 {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0
	}
	return g.cells[row*g.cols+col]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
