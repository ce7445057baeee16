package styles

import (
	"math"
	"testing"

	"github.com/matzehuels/compgraph/pkg/graph"
)

func TestCurvePath(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           string
	}{
		{"short span", 0, 0, 100, 40, "M 0 0 C 50 20, 50 20, 100 40"},
		{"clamped down", 0, 0, 100, 200, "M 0 0 C 50 80, 50 120, 100 200"},
		{"clamped up", 100, 200, 0, 0, "M 100 200 C 50 120, 50 80, 0 0"},
		{"horizontal", 320, 80, 480, 80, "M 320 80 C 400 80, 400 80, 480 80"},
		{"fractional", 0, 0, 5, 3, "M 0 0 C 2.5 1.5, 2.5 1.5, 5 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurvePath(tt.x1, tt.y1, tt.x2, tt.y2); got != tt.want {
				t.Errorf("CurvePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurveOffsetBand(t *testing.T) {
	for _, dy := range []float64{-1000, -161, -160, -20, 0, 20, 160, 161, 1000} {
		c := NewCurve(0, 0, 300, dy)
		if o := c.C1Y - c.Y1; math.Abs(o) > MaxCurveOffset {
			t.Errorf("dy=%v: offset %v outside ±%v", dy, o, MaxCurveOffset)
		}
		if c.C1X != 150 || c.C2X != 150 {
			t.Errorf("dy=%v: control x = %v/%v, want 150", dy, c.C1X, c.C2X)
		}
	}
}

func TestCurveMidpoint(t *testing.T) {
	x, y := CurveMidpoint(0, 0, 100, 200)
	if x != 50 || y != 100 {
		t.Errorf("CurveMidpoint() = (%v,%v), want (50,100)", x, y)
	}

	c := NewCurve(10, 20, 90, 60)
	if x, y := c.Point(0); x != 10 || y != 20 {
		t.Errorf("Point(0) = (%v,%v), want start", x, y)
	}
	if x, y := c.Point(1); x != 90 || y != 60 {
		t.Errorf("Point(1) = (%v,%v), want end", x, y)
	}
}

func TestEdgeStyleFor(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range EdgeKinds {
		s := EdgeStyleFor(k)
		if s.Stroke == "" || s.Marker == "" {
			t.Errorf("%s: incomplete style %+v", k, s)
		}
		if seen[s.Marker] {
			t.Errorf("%s: marker %q reused", k, s.Marker)
		}
		seen[s.Marker] = true
	}
	if EdgeStyleFor(graph.EdgeStateMutation).Dash == "" {
		t.Error("state-mutation edges should be dashed")
	}
	if got := EdgeStyleFor("bogus"); got != fallbackEdge {
		t.Errorf("EdgeStyleFor(bogus) = %+v, want fallback", got)
	}
	if n := len(Markers()); n != len(EdgeKinds)+1 {
		t.Errorf("Markers() = %d entries, want %d", n, len(EdgeKinds)+1)
	}
}

func TestNodeStyleFor(t *testing.T) {
	for _, k := range graph.NodeKinds {
		if s := NodeStyleFor(k); s == fallbackNode {
			t.Errorf("%s uses the fallback style", k)
		}
	}
	if got := NodeStyleFor("bogus"); got != fallbackNode {
		t.Errorf("NodeStyleFor(bogus) = %+v, want fallback", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		width float64
		want  string
	}{
		{"<div>", 140, "<div>"},
		{"abcdefghijklmnopqrst", 140, "abcdefghijklmno.."},
		{"état-très-long-libellé", 140, "état-très-long-.."},
		{"abcdef", 10, "a.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.width); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML("<li> & co"); got != "&lt;li&gt; &amp; co" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
