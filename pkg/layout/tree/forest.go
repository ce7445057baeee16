package tree

import "github.com/matzehuels/compgraph/pkg/graph"

// Forest is the resolved JSX family of a layout.
type Forest struct {
	// Order lists JSX node ids in input order.
	Order []string
	// Roots lists the nodes each traversal starts from: regular roots in
	// input order, followed by promoted cycle members.
	Roots []string
	// Promoted lists the roots that were only reachable through a parent
	// cycle.
	Promoted []string

	children map[string][]string
	depth    map[string]int
	maxDepth int
}

// Resolve builds the forest of JSX nodes and assigns depths.
func Resolve(nodes []graph.Node) *Forest {
	f := &Forest{
		children: make(map[string][]string),
		depth:    make(map[string]int),
	}

	jsx := make(map[string]bool)
	for i := range nodes {
		if nodes[i].IsJSX() {
			if jsx[nodes[i].ID] {
				continue
			}
			jsx[nodes[i].ID] = true
			f.Order = append(f.Order, nodes[i].ID)
		}
	}

	seen := make(map[string]bool, len(f.Order))
	for i := range nodes {
		n := &nodes[i]
		if !n.IsJSX() || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		parent := n.ParentID()
		if parent == "" || parent == n.ID || !jsx[parent] {
			f.Roots = append(f.Roots, n.ID)
			continue
		}
		f.children[parent] = append(f.children[parent], n.ID)
	}

	f.assignDepths()
	return f
}

// Children returns the children of id in input order.
func (f *Forest) Children(id string) []string { return f.children[id] }

// Depth returns the depth of id and whether it is part of the forest.
func (f *Forest) Depth(id string) (int, bool) {
	d, ok := f.depth[id]
	return d, ok
}

// MaxDepth returns the largest depth in the forest.
func (f *Forest) MaxDepth() int { return f.maxDepth }

// Len returns the number of JSX nodes.
func (f *Forest) Len() int { return len(f.Order) }

// assignDepths is the depth discovery pass.
func (f *Forest) assignDepths() {
	visited := make(map[string]bool, len(f.Order))
	var visit func(id string, d int)
	visit = func(id string, d int) {
		visited[id] = true
		f.depth[id] = d
		f.maxDepth = max(f.maxDepth, d)
		for _, c := range f.children[id] {
			if !visited[c] {
				visit(c, d+1)
			}
		}
	}

	for _, r := range f.Roots {
		if !visited[r] {
			visit(r, 0)
		}
	}
	for _, id := range f.Order {
		if visited[id] {
			continue
		}
		f.Roots = append(f.Roots, id)
		f.Promoted = append(f.Promoted, id)
		visit(id, 0)
	}
}
