package build

import (
	"strings"
	"testing"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/mapping"
)

func todoMapping() *mapping.Result {
	return &mapping.Result{
		Component:    "TodoList",
		Independents: []mapping.Independent{{Name: "items"}},
		States:       []mapping.State{{Name: "filter", Setter: "setFilter"}},
		Variables:    []mapping.Variable{{Name: "visible", Deps: []string{"items", "filter"}}},
		Effects:      []mapping.Effect{{Name: "syncTitle", Deps: []string{"visible"}, Mutates: []string{"filter"}}},
		JSX: []mapping.Element{
			{ID: "list", Tag: "ul"},
			{ID: "item", Tag: "li", Parent: "list", Uses: []string{"visible"}},
		},
		Externals: []mapping.External{{Name: "fetchTodos", Users: []string{"syncTitle"}}},
	}
}

func TestBuildNodes(t *testing.T) {
	l, warnings, err := Build(todoMapping())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	tests := []struct {
		id    string
		kind  graph.NodeKind
		label string
		x, y  float64
	}{
		{"independent:0", graph.KindIndependent, "items", 120, 80},
		{"state:0", graph.KindState, "filter", 320, 80},
		{"variable:0", graph.KindVariable, "visible", 520, 80},
		{"effect:0", graph.KindEffect, "syncTitle", 720, 80},
		{"jsx:0", graph.KindJSX, "<ul>", 920, 80},
		{"jsx:1", graph.KindJSX, "<li>", 920, 120},
		{"external:0", graph.KindExternal, "fetchTodos", 1120, 80},
	}
	if len(l.Nodes) != len(tests) {
		t.Fatalf("nodes = %d, want %d", len(l.Nodes), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n := l.Nodes[i]
			if n.ID != tt.id || n.Kind != tt.kind || n.Label != tt.label {
				t.Errorf("node = %s/%s/%q, want %s/%s/%q", n.ID, n.Kind, n.Label, tt.id, tt.kind, tt.label)
			}
			if n.X != tt.x || n.Y != tt.y {
				t.Errorf("position = (%v,%v), want (%v,%v)", n.X, n.Y, tt.x, tt.y)
			}
			if n.Width != NodeWidth || n.Height != NodeHeight {
				t.Errorf("size = %vx%v, want %vx%v", n.Width, n.Height, NodeWidth, NodeHeight)
			}
		})
	}

	child, _ := l.Node("jsx:1")
	if child.ParentID() != "jsx:0" {
		t.Errorf("jsx:1 parent = %q, want jsx:0", child.ParentID())
	}
	if l.Width != 1280 {
		t.Errorf("Width = %v, want 1280", l.Width)
	}
	if l.Height != 200 {
		t.Errorf("Height = %v, want 200", l.Height)
	}
	if l.ColX["jsx"] != 920 || l.ColX["independent"] != 120 {
		t.Errorf("ColX = %v", l.ColX)
	}
}

func TestBuildEdges(t *testing.T) {
	l, _, err := Build(todoMapping())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []struct {
		id       string
		kind     graph.EdgeKind
		from, to string
		label    string
	}{
		{"e1", graph.EdgeFlow, "independent:0", "variable:0", ""},
		{"e2", graph.EdgeStateDependency, "state:0", "variable:0", ""},
		{"e3", graph.EdgeFlow, "variable:0", "effect:0", ""},
		{"e4", graph.EdgeStateMutation, "effect:0", "state:0", "setFilter"},
		{"e5", graph.EdgeFlow, "variable:0", "jsx:1", ""},
		{"e6", graph.EdgeExternal, "external:0", "effect:0", ""},
		{"e7", graph.EdgeFlow, "jsx:0", "jsx:1", ""},
	}
	if len(l.Edges) != len(want) {
		t.Fatalf("edges = %d, want %d: %+v", len(l.Edges), len(want), l.Edges)
	}
	for i, w := range want {
		e := l.Edges[i]
		if e.ID != w.id || e.Kind != w.kind || e.From.NodeID != w.from || e.To.NodeID != w.to || e.Label != w.label {
			t.Errorf("edge %d = %s %s %s→%s %q, want %s %s %s→%s %q",
				i, e.ID, e.Kind, e.From.NodeID, e.To.NodeID, e.Label, w.id, w.kind, w.from, w.to, w.label)
		}
	}

	// Endpoints snapshot node centers.
	e := l.Edges[4]
	if e.From.X != 520 || e.From.Y != 80 || e.To.X != 920 || e.To.Y != 120 {
		t.Errorf("e5 endpoints = (%v,%v)→(%v,%v)", e.From.X, e.From.Y, e.To.X, e.To.Y)
	}
	if _, err := graph.Validate(l, graph.ValidateOptions{Strict: true}); err != nil {
		t.Errorf("built layout does not validate: %v", err)
	}
}

func TestBuildWarnings(t *testing.T) {
	m := &mapping.Result{
		States:    []mapping.State{{Name: "count"}},
		Variables: []mapping.Variable{{Name: "double", Deps: []string{"count", "ghost"}}},
		Effects:   []mapping.Effect{{Name: "e", Mutates: []string{"double"}}},
		JSX: []mapping.Element{
			{ID: "orphan", Tag: "p", Parent: "missing"},
			{ID: "attached", Tag: "b", Parent: "count"},
		},
	}
	l, warnings, err := Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("warnings = %v, want 3", warnings)
	}
	for _, sub := range []string{`"ghost"`, `"double"`, `"missing"`} {
		found := false
		for _, w := range warnings {
			found = found || strings.Contains(w, sub)
		}
		if !found {
			t.Errorf("no warning mentions %s: %v", sub, warnings)
		}
	}

	orphan, _ := l.Node("jsx:0")
	if orphan.ParentID() != "missing" {
		t.Errorf("dangling parent = %q, want raw name kept", orphan.ParentID())
	}
	attached, _ := l.Node("jsx:1")
	if attached.ParentID() != "state:0" {
		t.Errorf("non-jsx parent = %q, want state:0", attached.ParentID())
	}
	if len(l.Edges) != 1 {
		t.Errorf("edges = %d, want 1 (count→double)", len(l.Edges))
	}
}

func TestBuildEmpty(t *testing.T) {
	tests := []struct {
		name string
		m    *mapping.Result
	}{
		{"nil", nil},
		{"no entries", &mapping.Result{Component: "Blank"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(tt.m)
			if !errors.IsEmpty(err) {
				t.Errorf("Build() error = %v, want EMPTY_GRAPH", err)
			}
		})
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		src  graph.NodeKind
		want graph.EdgeKind
	}{
		{graph.KindState, graph.EdgeStateDependency},
		{graph.KindExternal, graph.EdgeExternal},
		{graph.KindIndependent, graph.EdgeFlow},
		{graph.KindVariable, graph.EdgeFlow},
		{graph.KindJSX, graph.EdgeFlow},
	}
	for _, tt := range tests {
		if got := KindFor(tt.src); got != tt.want {
			t.Errorf("KindFor(%s) = %s, want %s", tt.src, got, tt.want)
		}
	}
}
