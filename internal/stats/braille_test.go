package stats

import "testing"

func TestBrailleGridDots(t *testing.T) {
	g := newBrailleGrid(2, 1)
	g.dot(0, 0)
	g.dot(1, 3)
	g.dot(2, 0)
	g.dot(9, 9)
	if got := brailleRune(g.mask(0, 0)); got != '⢁' {
		t.Fatalf("cell 0 = %q", got)
	}
	if got := brailleRune(g.mask(1, 0)); got != '⠁' {
		t.Fatalf("cell 1 = %q", got)
	}
	if g.mask(5, 5) != 0 {
		t.Fatalf("out of range cells must be empty")
	}
}

func TestBrailleGridLineDashes(t *testing.T) {
	g := newBrailleGrid(4, 1)
	g.line(0, 0, 7, 0, dash{"dotted", 4, 1}.keep)
	// Dots at x=0 and x=4 only.
	if g.mask(0, 0) != 0x01 || g.mask(1, 0) != 0 || g.mask(2, 0) != 0x01 || g.mask(3, 0) != 0 {
		t.Fatalf("unexpected masks %v", g.cells)
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{0, 10}, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 5 || got[2] != 10 {
		t.Fatalf("interpolate: %v", got)
	}
	got = resample([]float64{1, 3, 5, 7}, 2)
	if got[0] != 2 || got[1] != 6 {
		t.Fatalf("average: %v", got)
	}
}
