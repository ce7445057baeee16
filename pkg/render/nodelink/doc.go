// Package nodelink renders component graph layouts through Graphviz.
//
// # Overview
//
// The native [svg] sink draws the column picture directly. This package is
// the alternative for users who want Graphviz edge routing or want to post
// process the DOT source with their own tooling.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	data, err := nodelink.RenderSVG(ctx, dot)
//
// # Positioning
//
// [ToDOT] pins every node to its layout coordinates, so the tree transform
// and column anchors survive the round trip and neato only routes edges.
// With Options.Ranked the positions are dropped and dot ranks the graph
// left to right.
//
// # Styling
//
// Node fills and edge colors come from [styles], the same tables used by
// the SVG and PNG sinks. State mutation and external edges are dashed.
//
// # Dependencies
//
// Rendering runs in-process through [github.com/goccy/go-graphviz]; no
// Graphviz installation is required.
//
// [svg]: github.com/matzehuels/compgraph/pkg/render/svg
// [styles]: github.com/matzehuels/compgraph/pkg/render/styles
package nodelink
