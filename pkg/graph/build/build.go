// Package build turns a mapping result into a columnized graph layout.
//
// Every entry of a mapping result becomes one node placed in the column of
// its kind. Columns are vertical stacks anchored at fixed x positions:
//
//	independent  state  variable  effect  jsx   external
//	    120       320     520      720    920     1120
//
// Dependencies, mutations, uses and external calls become edges whose
// endpoints snapshot the node centers. JSX elements keep their parent
// reference in the "parentId" meta key so the tree layout transformer
// can re-derive their positions.
//
// The layout produced here is the input of [github.com/matzehuels/compgraph/pkg/layout/tree].
package build

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/mapping"
)

// Column geometry.
const (
	ColumnTop  = 80.0
	ColumnStep = 40.0
	NodeWidth  = 140.0
	NodeHeight = 28.0
	// CanvasPad is added to the rightmost anchor for the canvas width.
	CanvasPad = 160.0
	// BottomPad is added below the tallest column.
	BottomPad = 40.0
)

// ColumnX holds the anchor x-coordinate of each column.
var ColumnX = map[graph.NodeKind]float64{
	graph.KindIndependent: 120,
	graph.KindState:       320,
	graph.KindVariable:    520,
	graph.KindEffect:      720,
	graph.KindJSX:         920,
	graph.KindExternal:    1120,
}

// Warnings collects non-fatal findings, such as references to unknown names.
type Warnings []string

// Build constructs the base layout for m.
//
// A nil or empty result yields an EMPTY_GRAPH error. References to unknown
// names are skipped and reported as warnings.
func Build(m *mapping.Result) (graph.Layout, Warnings, error) {
	if m.IsEmpty() {
		return graph.Layout{}, nil, errors.New(errors.ErrCodeEmptyGraph, "mapping result has no entries")
	}

	b := &builder{
		ids:    make(map[string]string, m.Count()),
		index:  make(map[string]int, m.Count()),
		counts: make(map[graph.NodeKind]int, len(graph.NodeKinds)),
	}
	b.addNodes(m)
	b.addEdges(m)

	l := graph.Layout{
		Nodes: b.nodes,
		Edges: b.edges,
		ColX:  make(map[string]float64, len(ColumnX)),
	}
	maxX, tallest := 0.0, 0
	for kind, x := range ColumnX {
		l.ColX[string(kind)] = x
		maxX = max(maxX, x)
	}
	for _, n := range b.counts {
		tallest = max(tallest, n)
	}
	l.Width = maxX + CanvasPad
	l.Height = ColumnTop + float64(tallest)*ColumnStep + BottomPad
	return l, b.warnings, nil
}

type builder struct {
	nodes    []graph.Node
	edges    []graph.Edge
	ids      map[string]string // mapping name → node id
	index    map[string]int    // node id → position in nodes
	counts   map[graph.NodeKind]int
	warnings Warnings
}

func (b *builder) addNodes(m *mapping.Result) {
	for _, v := range m.Independents {
		label := v.Label
		if label == "" {
			label = v.Name
		}
		b.addNode(graph.KindIndependent, v.Name, label)
	}
	for _, v := range m.States {
		b.addNode(graph.KindState, v.Name, v.Name)
	}
	for _, v := range m.Variables {
		b.addNode(graph.KindVariable, v.Name, v.Name)
	}
	for _, v := range m.Effects {
		b.addNode(graph.KindEffect, v.Name, v.Name)
	}
	for _, v := range m.JSX {
		b.addNode(graph.KindJSX, v.ID, "<"+v.Tag+">")
	}
	for _, v := range m.Externals {
		b.addNode(graph.KindExternal, v.Name, v.Name)
	}

	// Parent references are resolved once every id is known. A parent that
	// names a non-JSX entry still resolves; the layout transformer decides
	// how to treat it.
	for _, v := range m.JSX {
		if v.Parent == "" {
			continue
		}
		n := &b.nodes[b.index[b.ids[v.ID]]]
		parent, ok := b.ids[v.Parent]
		if !ok {
			b.warn("jsx %q: unknown parent %q", v.ID, v.Parent)
			parent = v.Parent
		}
		n.Meta = map[string]any{graph.MetaParentID: parent}
	}
}

func (b *builder) addNode(kind graph.NodeKind, name, label string) {
	row := b.counts[kind]
	b.counts[kind] = row + 1
	id := string(kind) + ":" + strconv.Itoa(row)
	b.ids[name] = id
	b.index[id] = len(b.nodes)
	b.nodes = append(b.nodes, graph.Node{
		ID:     id,
		Kind:   kind,
		Label:  label,
		X:      ColumnX[kind],
		Y:      ColumnTop + float64(row)*ColumnStep,
		Width:  NodeWidth,
		Height: NodeHeight,
	})
}

func (b *builder) addEdges(m *mapping.Result) {
	for _, v := range m.States {
		for _, dep := range v.Deps {
			b.link("state", v.Name, dep, v.Name, "")
		}
	}
	for _, v := range m.Variables {
		for _, dep := range v.Deps {
			b.link("variable", v.Name, dep, v.Name, "")
		}
	}
	for _, v := range m.Effects {
		for _, dep := range v.Deps {
			b.link("effect", v.Name, dep, v.Name, "")
		}
		for _, st := range v.Mutates {
			to, ok := b.ids[st]
			if !ok || b.nodes[b.index[to]].Kind != graph.KindState {
				b.warn("effect %q: mutates unknown state %q", v.Name, st)
				continue
			}
			b.addEdge(graph.EdgeStateMutation, b.ids[v.Name], to, setterLabel(m, st))
		}
	}
	for _, v := range m.JSX {
		for _, use := range v.Uses {
			b.link("jsx", v.ID, use, v.ID, "")
		}
	}
	for _, v := range m.Externals {
		for _, user := range v.Users {
			b.link("external", v.Name, v.Name, user, "")
		}
	}
	for _, v := range m.JSX {
		if v.Parent == "" {
			continue
		}
		from, ok := b.ids[v.Parent]
		if !ok || b.nodes[b.index[from]].Kind != graph.KindJSX {
			continue
		}
		b.addEdge(graph.EdgeFlow, from, b.ids[v.ID], "")
	}
}

// link connects two named entries. owner names the entry whose list holds
// the reference and is only used for warnings.
func (b *builder) link(section, owner, fromName, toName, label string) {
	from, ok := b.ids[fromName]
	if !ok {
		b.warn("%s %q: unknown reference %q", section, owner, fromName)
		return
	}
	to, ok := b.ids[toName]
	if !ok {
		b.warn("%s %q: unknown reference %q", section, owner, toName)
		return
	}
	b.addEdge(KindFor(b.nodes[b.index[from]].Kind), from, to, label)
}

func (b *builder) addEdge(kind graph.EdgeKind, from, to, label string) {
	src, dst := b.nodes[b.index[from]], b.nodes[b.index[to]]
	b.edges = append(b.edges, graph.Edge{
		ID:    "e" + strconv.Itoa(len(b.edges)+1),
		Kind:  kind,
		From:  graph.Endpoint{NodeID: from, X: src.X, Y: src.Y},
		To:    graph.Endpoint{NodeID: to, X: dst.X, Y: dst.Y},
		Label: label,
	})
}

func (b *builder) warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// KindFor returns the edge kind for a dependency whose source has kind src.
func KindFor(src graph.NodeKind) graph.EdgeKind {
	switch src {
	case graph.KindState:
		return graph.EdgeStateDependency
	case graph.KindExternal:
		return graph.EdgeExternal
	}
	return graph.EdgeFlow
}

func setterLabel(m *mapping.Result, state string) string {
	for _, s := range m.States {
		if s.Name == state {
			return s.Setter
		}
	}
	return ""
}
