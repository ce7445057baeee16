package graph

import "maps"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeKind classifies a node by the role it plays inside a component.
type NodeKind string

// Node kinds.
const (
	KindIndependent NodeKind = "independent"
	KindState       NodeKind = "state"
	KindVariable    NodeKind = "variable"
	KindEffect      NodeKind = "effect"
	KindJSX         NodeKind = "jsx"
	KindExternal    NodeKind = "external"
)

// NodeKinds lists every node kind in column order.
var NodeKinds = []NodeKind{
	KindIndependent,
	KindState,
	KindVariable,
	KindEffect,
	KindJSX,
	KindExternal,
}

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindIndependent, KindState, KindVariable, KindEffect, KindJSX, KindExternal:
		return true
	}
	return false
}

// EdgeKind selects the visual style of an edge. It has no bearing on layout.
type EdgeKind string

// Edge kinds.
const (
	EdgeFlow            EdgeKind = "flow"
	EdgeStateDependency EdgeKind = "state-dependency"
	EdgeStateMutation   EdgeKind = "state-mutation"
	EdgeExternal        EdgeKind = "external"
)

// Valid reports whether k is a known edge kind.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeFlow, EdgeStateDependency, EdgeStateMutation, EdgeExternal:
		return true
	}
	return false
}

// MetaParentID is the meta key holding a JSX node's parent id.
const MetaParentID = "parentId"

// =============================================================================
// Node
// =============================================================================

// Node is a positioned box. X and Y are the center of the box.
type Node struct {
	ID     string         `json:"id" bson:"id"`
	Kind   NodeKind       `json:"kind" bson:"kind"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"`
	X      float64        `json:"x" bson:"x"`
	Y      float64        `json:"y" bson:"y"`
	Width  float64        `json:"width" bson:"width"`
	Height float64        `json:"height" bson:"height"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// IsJSX reports whether the node belongs to the returned element tree.
func (n *Node) IsJSX() bool { return n.Kind == KindJSX }

// ParentID returns the declared parent id of a JSX node, or "" when the node
// has none. Non-string values are ignored.
func (n *Node) ParentID() string {
	if n.Meta == nil {
		return ""
	}
	id, _ := n.Meta[MetaParentID].(string)
	return id
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Left returns the x-coordinate of the box's left side.
func (n *Node) Left() float64 { return n.X - n.Width/2 }

// Right returns the x-coordinate of the box's right side.
func (n *Node) Right() float64 { return n.X + n.Width/2 }

// Top returns the y-coordinate of the box's top side.
func (n *Node) Top() float64 { return n.Y - n.Height/2 }

// Bottom returns the y-coordinate of the box's bottom side.
func (n *Node) Bottom() float64 { return n.Y + n.Height/2 }

// =============================================================================
// Edge
// =============================================================================

// Endpoint is one end of an edge. NodeID is empty for free-floating anchor
// points; X and Y cache the coordinates the edge is drawn to.
type Endpoint struct {
	NodeID string  `json:"nodeId,omitempty" bson:"node_id,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
}

// Edge is a directed connection between two endpoints.
type Edge struct {
	ID    string   `json:"id" bson:"id"`
	Kind  EdgeKind `json:"kind" bson:"kind"`
	From  Endpoint `json:"from" bson:"from"`
	To    Endpoint `json:"to" bson:"to"`
	Label string   `json:"label,omitempty" bson:"label,omitempty"`
}

// =============================================================================
// Layout
// =============================================================================

// Layout is a positioned component graph: ordered nodes and edges, column
// anchors and the canvas size.
type Layout struct {
	Nodes  []Node             `json:"nodes" bson:"nodes"`
	Edges  []Edge             `json:"edges" bson:"edges"`
	ColX   map[string]float64 `json:"colX,omitempty" bson:"col_x,omitempty"`
	Width  float64            `json:"width" bson:"width"`
	Height float64            `json:"height" bson:"height"`
}

// IsEmpty reports whether the layout has no nodes.
func (l *Layout) IsEmpty() bool { return len(l.Nodes) == 0 }

// HasKind reports whether any node has kind k.
func (l *Layout) HasKind(k NodeKind) bool {
	for i := range l.Nodes {
		if l.Nodes[i].Kind == k {
			return true
		}
	}
	return false
}

// Node returns the node with the given id.
func (l *Layout) Node(id string) (*Node, bool) {
	for i := range l.Nodes {
		if l.Nodes[i].ID == id {
			return &l.Nodes[i], true
		}
	}
	return nil, false
}

// Index returns a map from node id to its position in Nodes.
// When ids repeat, the first occurrence wins.
func (l *Layout) Index() map[string]int {
	idx := make(map[string]int, len(l.Nodes))
	for i := range l.Nodes {
		if _, seen := idx[l.Nodes[i].ID]; !seen {
			idx[l.Nodes[i].ID] = i
		}
	}
	return idx
}

// CountKind returns the number of nodes with kind k.
func (l *Layout) CountKind(k NodeKind) int {
	n := 0
	for i := range l.Nodes {
		if l.Nodes[i].Kind == k {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the layout. Node meta maps are copied
// shallowly; their values are shared.
func (l Layout) Clone() Layout {
	out := Layout{
		Width:  l.Width,
		Height: l.Height,
	}
	if l.Nodes != nil {
		out.Nodes = make([]Node, len(l.Nodes))
		for i, n := range l.Nodes {
			n.Meta = copyMeta(n.Meta)
			out.Nodes[i] = n
		}
	}
	if l.Edges != nil {
		out.Edges = make([]Edge, len(l.Edges))
		copy(out.Edges, l.Edges)
	}
	if l.ColX != nil {
		out.ColX = maps.Clone(l.ColX)
	}
	return out
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
