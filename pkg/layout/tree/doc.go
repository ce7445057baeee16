// Package tree lays out the JSX family of a component graph as a tree.
//
// # Overview
//
// The base graph builder stacks every node in the column of its kind. For
// JSX elements that hides the shape of the returned tree, so [Transform]
// re-derives their positions from the parent references carried in the
// "parentId" meta key:
//
//   - Depth (distance from the family root) selects the horizontal slot
//   - Row (visit order among nodes of equal depth) selects the vertical slot
//
// The depth span is centered on the JSX column anchor:
//
//	x = centerX - (D * depthGap)/2 + d * depthGap
//	y = baseY + row * rowGap
//
// where D is the maximum depth. Defaults are depthGap=160, rowGap=40 and
// baseY=80. When a center lands left of x=0 the family moves right until the
// leftmost center sits on 0; [WithKeepInside] clears whole boxes instead. Non-JSX nodes and edges are not moved; edge endpoints that
// reference a repositioned node are re-snapshotted, and the canvas grows to
// contain the new boxes plus a margin (default 40). It never shrinks.
//
// # Family Resolution
//
// A JSX node is a root when it has no parent id, when its parent id does not
// name another JSX node in the layout, or when it names itself. Multiple
// roots are allowed. Children keep the order of the input node sequence.
//
// Parent links are unvalidated input. Traversals mark nodes visited before
// descending and never re-enter a visited node, so a parent cycle cannot
// loop forever. Cycle members are unreachable from any regular root; the
// first of them in input order is promoted to a root until every JSX node
// has been placed.
//
// # Passes
//
// Depth discovery and row assignment are two separate traversals. The second
// is a [Packer] strategy, so packing can change without touching depth
// discovery. [DepthPacker] (the default) keeps one counter per depth and
// numbers nodes in depth-first pre-order:
//
//	root          depth 0, row 0
//	├── a         depth 1, row 0
//	│   └── a1    depth 2, row 0
//	└── b         depth 1, row 1
//
// # Usage
//
//	out := tree.Transform(l)
//
//	out, res := tree.Layout(l, tree.WithSpacing(200, 48))
//	for _, p := range res.Placements {
//	    fmt.Println(p.ID, p.Depth, p.Row)
//	}
//
// Both functions are pure: the input layout is never modified and the
// result owns freshly allocated nodes, edges and column anchors. A layout
// without JSX nodes is returned unchanged.
package tree
