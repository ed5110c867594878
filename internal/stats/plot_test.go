package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotTrend(t *testing.T) {
	var buf bytes.Buffer
	err := PlotTrend(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{7, 6.5, 8, 7.5, 9}},
		{Name: "B", Values: []float64{7.5, 7.5, 7.5, 7.5, 7.5}},
	}, 10, 4, false)
	if err != nil {
		t.Fatalf("PlotTrend failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines of output, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "   9h") {
		t.Fatalf("expected 9h ceiling on top row, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "   0h") {
		t.Fatalf("expected 0h on bottom row, got %q", lines[4])
	}
}

func TestPlotTrendSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotTrend(&buf, "Empty", []Series{{Name: "A"}}, 10, 4, false); err != nil {
		t.Fatalf("PlotTrend failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestDomainMax(t *testing.T) {
	if got := DomainMax(); got != 8 {
		t.Fatalf("expected 8 for no values, got %v", got)
	}
	if got := DomainMax(7, 6.5); got != 8 {
		t.Fatalf("expected 8, got %v", got)
	}
	if got := DomainMax(7, 9.2); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}
