package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

func TestPointerMapsScreenCellsToDialAngles(t *testing.T) {
	g := dialGeometry{radius: 8, originX: 2, originY: 3}
	cx, cy := g.center()
	r := g.radius
	cases := []struct {
		name string
		x, y int
		want float64
	}{
		{"top", g.originX + cx, g.originY + cy - r, 0},
		{"right", g.originX + cx + 2*r, g.originY + cy, 90},
		{"bottom", g.originX + cx, g.originY + cy + r, 180},
		{"left", g.originX + cx - 2*r, g.originY + cy, 270},
	}
	for _, tc := range cases {
		px, py := g.pointer(tc.x, tc.y)
		got := dial.PointerAngle(px, py)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: angle = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	g := dialGeometry{radius: 8}
	for _, angle := range []float64{0, 90, 180, 270} {
		col, row := g.cellAt(angle, float64(g.radius))
		got, dist := g.canvasAngle(col, row)
		if math.Abs(got-angle) > 1e-9 {
			t.Fatalf("angle %v: round trip gave %v", angle, got)
		}
		if math.Abs(dist-float64(g.radius)) > 1e-9 {
			t.Fatalf("angle %v: distance %v", angle, dist)
		}
	}
}

func TestContains(t *testing.T) {
	g := dialGeometry{radius: 4, originX: 2, originY: 1}
	if !g.contains(2, 1) || !g.contains(2+16, 1+8) {
		t.Fatalf("expected corners inside")
	}
	if g.contains(1, 1) || g.contains(2+17, 1) || g.contains(2, 1+9) {
		t.Fatalf("expected cells outside")
	}
}

func TestNearestHandle(t *testing.T) {
	rng := dial.New(0, 180)
	if got := nearestHandle(rng, 80); got != dial.Start {
		t.Fatalf("80: got %v", got)
	}
	if got := nearestHandle(rng, 100); got != dial.End {
		t.Fatalf("100: got %v", got)
	}
	if got := nearestHandle(rng, 90); got != dial.Start {
		t.Fatalf("tie should pick bedtime, got %v", got)
	}
	if got := nearestHandle(rng, 350); got != dial.Start {
		t.Fatalf("350 wraps to bedtime, got %v", got)
	}
}

func TestInArcWraps(t *testing.T) {
	cases := []struct {
		angle, start, end float64
		want              bool
	}{
		{90, 0, 180, true},
		{270, 0, 180, false},
		{10, 350, 30, true},
		{355, 350, 30, true},
		{180, 350, 30, false},
	}
	for _, tc := range cases {
		if got := inArc(tc.angle, tc.start, tc.end); got != tc.want {
			t.Fatalf("inArc(%v, %v, %v) = %v", tc.angle, tc.start, tc.end, got)
		}
	}
}

func TestRenderDial(t *testing.T) {
	rng := dial.New(0, 180)
	g := dialGeometry{radius: 8}
	out := renderDial(rng, g, dial.Start)
	lines := strings.Split(out, "\n")
	if len(lines) != 17 {
		t.Fatalf("expected 17 rows, got %d", len(lines))
	}
	for _, want := range []string{bedtimeGlyph, wakeGlyph, arcGlyph, ringGlyph, "12h 00m", "18", "21"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dial missing %q:\n%s", want, out)
		}
	}
}

func TestRadiusFor(t *testing.T) {
	cases := []struct {
		width, height, want int
	}{
		{0, 0, defaultRadius},
		{200, 100, maxRadius},
		{20, 5, minRadius},
		{41, 21, 10},
	}
	for _, tc := range cases {
		if got := radiusFor(tc.width, tc.height); got != tc.want {
			t.Fatalf("radiusFor(%d, %d) = %d, want %d", tc.width, tc.height, got, tc.want)
		}
	}
}
