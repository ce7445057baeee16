package tree

import "github.com/matzehuels/compgraph/pkg/graph"

// reconcileEdges re-snapshots endpoints that reference a moved node and
// returns the number of endpoints rewritten. Free-floating endpoints and
// endpoints of untouched nodes keep their coordinates.
func reconcileEdges(l *graph.Layout, moved map[string]int) int {
	updated := 0
	snap := func(ep *graph.Endpoint) {
		if ep.NodeID == "" {
			return
		}
		i, ok := moved[ep.NodeID]
		if !ok {
			return
		}
		ep.X, ep.Y = l.Nodes[i].X, l.Nodes[i].Y
		updated++
	}
	for i := range l.Edges {
		snap(&l.Edges[i].From)
		snap(&l.Edges[i].To)
	}
	return updated
}

// growBounds extends the canvas to contain every moved box plus margin.
func growBounds(l *graph.Layout, moved map[string]int, margin float64) {
	for _, i := range moved {
		n := &l.Nodes[i]
		l.Width = max(l.Width, n.X+n.Width/2+margin)
		l.Height = max(l.Height, n.Y+n.Height/2+margin)
	}
}
