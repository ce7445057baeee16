package styles

import "github.com/matzehuels/compgraph/pkg/graph"

// EdgeStyle is the stroke of an edge.
type EdgeStyle struct {
	Stroke string
	Dash   string // SVG stroke-dasharray, empty for solid
	Marker string // id of the arrowhead marker
}

// NodeStyle is the box of a node.
type NodeStyle struct {
	Fill   string
	Stroke string
	Text   string
}

var (
	fallbackEdge = EdgeStyle{Stroke: "#9e9e9e", Marker: "arrow-default"}
	fallbackNode = NodeStyle{Fill: "#f5f5f5", Stroke: "#9e9e9e", Text: "#333333"}
)

var edgeStyles = map[graph.EdgeKind]EdgeStyle{
	graph.EdgeFlow:            {Stroke: "#607d8b", Marker: "arrow-flow"},
	graph.EdgeStateDependency: {Stroke: "#2e7d32", Marker: "arrow-state-dependency"},
	graph.EdgeStateMutation:   {Stroke: "#e65100", Dash: "6 4", Marker: "arrow-state-mutation"},
	graph.EdgeExternal:        {Stroke: "#6a1b9a", Dash: "2 3", Marker: "arrow-external"},
}

var nodeStyles = map[graph.NodeKind]NodeStyle{
	graph.KindIndependent: {Fill: "#eceff1", Stroke: "#546e7a", Text: "#263238"},
	graph.KindState:       {Fill: "#e8f5e9", Stroke: "#2e7d32", Text: "#1b5e20"},
	graph.KindVariable:    {Fill: "#fffde7", Stroke: "#f9a825", Text: "#5d4037"},
	graph.KindEffect:      {Fill: "#fff3e0", Stroke: "#e65100", Text: "#bf360c"},
	graph.KindJSX:         {Fill: "#e3f2fd", Stroke: "#1565c0", Text: "#0d47a1"},
	graph.KindExternal:    {Fill: "#f3e5f5", Stroke: "#6a1b9a", Text: "#4a148c"},
}

// EdgeStyleFor returns the style of an edge kind.
func EdgeStyleFor(kind graph.EdgeKind) EdgeStyle {
	if s, ok := edgeStyles[kind]; ok {
		return s
	}
	return fallbackEdge
}

// NodeStyleFor returns the style of a node kind.
func NodeStyleFor(kind graph.NodeKind) NodeStyle {
	if s, ok := nodeStyles[kind]; ok {
		return s
	}
	return fallbackNode
}

// EdgeKinds lists the edge kinds with a dedicated style, in a stable order.
var EdgeKinds = []graph.EdgeKind{
	graph.EdgeFlow,
	graph.EdgeStateDependency,
	graph.EdgeStateMutation,
	graph.EdgeExternal,
}

// Markers returns every marker id paired with its stroke color, including
// the fallback marker, in a stable order.
func Markers() []EdgeStyle {
	out := make([]EdgeStyle, 0, len(EdgeKinds)+1)
	for _, k := range EdgeKinds {
		out = append(out, edgeStyles[k])
	}
	return append(out, fallbackEdge)
}
