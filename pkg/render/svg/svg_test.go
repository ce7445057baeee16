package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/compgraph/pkg/graph"
)

func testLayout() graph.Layout {
	return graph.Layout{
		Nodes: []graph.Node{
			{ID: "state:0", Kind: graph.KindState, Label: "count", X: 320, Y: 80, Width: 140, Height: 28},
			{ID: "jsx:0", Kind: graph.KindJSX, Label: "<div>", X: 840, Y: 80, Width: 140, Height: 28},
			{ID: "jsx:1", Kind: graph.KindJSX, Label: "<span>", X: 1000, Y: 80, Width: 140, Height: 28,
				Meta: map[string]any{graph.MetaParentID: "jsx:0"}},
		},
		Edges: []graph.Edge{
			{ID: "e1", Kind: graph.EdgeStateDependency, Label: "count",
				From: graph.Endpoint{NodeID: "state:0", X: 320, Y: 80},
				To:   graph.Endpoint{NodeID: "jsx:1", X: 1000, Y: 80}},
			{ID: "e2", Kind: graph.EdgeFlow,
				From: graph.Endpoint{NodeID: "jsx:0", X: 840, Y: 80},
				To:   graph.Endpoint{NodeID: "jsx:1", X: 1000, Y: 80}},
		},
		ColX:   map[string]float64{"state": 320, "jsx": 920},
		Width:  1280,
		Height: 200,
	}
}

func TestRender(t *testing.T) {
	out := Render(testLayout())
	s := string(out)

	if got := strings.Count(s, `class="node `); got != 3 {
		t.Errorf("node groups = %d, want 3", got)
	}
	if got := strings.Count(s, `<path id="edge-`); got != 2 {
		t.Errorf("edge paths = %d, want 2", got)
	}
	if !strings.Contains(s, `viewBox="0 0 1280.0 200.0"`) {
		t.Error("viewBox does not match layout size")
	}
	for _, want := range []string{
		`<text class="column-header" x="320.0" y="40.0" text-anchor="middle">state</text>`,
		`<text class="column-header" x="920.0" y="40.0" text-anchor="middle">jsx</text>`,
		`marker-end="url(#arrow-state-dependency)"`,
		`&lt;span&gt;`,
		`rx="6"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if strings.Contains(s, `class="edge-label"`) {
		t.Error("edge labels drawn without WithEdgeLabels")
	}
	if strings.Index(s, `class="headers"`) > strings.Index(s, `class="nodes"`) {
		t.Error("headers should precede nodes")
	}
}

func TestRenderIsWellFormed(t *testing.T) {
	out := Render(testLayout(), WithTitle(`A & "B"`), WithEdgeLabels())
	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v", err)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		want    []string
		notWant []string
	}{
		{
			name: "title",
			opts: []Option{WithTitle("TodoList")},
			want: []string{"<title>TodoList</title>"},
		},
		{
			name: "edge labels",
			opts: []Option{WithEdgeLabels()},
			want: []string{`<text class="edge-label" x="660.0" y="75.0" text-anchor="middle">count</text>`},
		},
		{
			name:    "no headers",
			opts:    []Option{WithHeaders(false)},
			notWant: []string{`class="column-header"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := string(Render(testLayout(), tt.opts...))
			for _, w := range tt.want {
				if !strings.Contains(s, w) {
					t.Errorf("output missing %s", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(s, w) {
					t.Errorf("output contains %s", w)
				}
			}
		})
	}
}

func TestRenderMarkers(t *testing.T) {
	s := string(Render(graph.Layout{Width: 100, Height: 100}))
	for _, id := range []string{"arrow-flow", "arrow-state-dependency", "arrow-state-mutation", "arrow-external", "arrow-default"} {
		if !strings.Contains(s, `<marker id="`+id+`"`) {
			t.Errorf("missing marker %s", id)
		}
	}
}

func TestAnchors(t *testing.T) {
	l := testLayout()
	nodes := map[string]*graph.Node{}
	for i := range l.Nodes {
		nodes[l.Nodes[i].ID] = &l.Nodes[i]
	}

	tests := []struct {
		name           string
		edge           graph.Edge
		x1, y1, x2, y2 float64
	}{
		{
			name: "left to right",
			edge: l.Edges[0],
			x1:   390, y1: 80, x2: 930, y2: 80,
		},
		{
			name: "right to left",
			edge: graph.Edge{From: graph.Endpoint{NodeID: "jsx:1", X: 1000, Y: 80}, To: graph.Endpoint{NodeID: "state:0", X: 320, Y: 80}},
			x1:   930, y1: 80, x2: 390, y2: 80,
		},
		{
			name: "same column",
			edge: graph.Edge{From: graph.Endpoint{NodeID: "state:0", X: 320, Y: 80}, To: graph.Endpoint{NodeID: "jsx:0", X: 320, Y: 160}},
			x1:   320, y1: 94, x2: 320, y2: 146,
		},
		{
			name: "free floating",
			edge: graph.Edge{From: graph.Endpoint{X: 5, Y: 6}, To: graph.Endpoint{X: 7, Y: 8}},
			x1:   5, y1: 6, x2: 7, y2: 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x1, y1, x2, y2 := Anchors(tt.edge, nodes)
			if x1 != tt.x1 || y1 != tt.y1 || x2 != tt.x2 || y2 != tt.y2 {
				t.Errorf("Anchors() = (%v,%v)→(%v,%v), want (%v,%v)→(%v,%v)",
					x1, y1, x2, y2, tt.x1, tt.y1, tt.x2, tt.y2)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	s := string(RenderEmpty("Nothing to draw for <Blank>"))
	if !strings.Contains(s, `class="empty-state"`) {
		t.Error("missing empty-state text")
	}
	if !strings.Contains(s, "Nothing to draw for &lt;Blank&gt;") {
		t.Error("message not escaped")
	}
	if strings.Contains(s, `class="node `) {
		t.Error("empty document contains nodes")
	}
}
