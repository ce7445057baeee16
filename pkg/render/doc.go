// Package render groups the output sinks for component graph layouts.
//
// # Overview
//
// Every sink consumes a [graph.Layout], usually one that already went
// through the tree transform, and draws the same picture: kind-colored
// boxes in fixed columns, S-curve edges, column headers.
//
//   - [svg]: native SVG document, the primary output
//   - [png]: native raster built on golang.org/x/image
//   - [nodelink]: DOT source and Graphviz-rendered SVG
//   - [styles]: shared curve geometry, colors, markers and label helpers
//
// JSON output is [graph.WriteLayout].
//
//	l := tree.Transform(base)
//	doc := svg.Render(l, svg.WithTitle("TodoList"))
//
// [graph.Layout]: github.com/matzehuels/compgraph/pkg/graph.Layout
// [graph.WriteLayout]: github.com/matzehuels/compgraph/pkg/graph.WriteLayout
// [svg]: github.com/matzehuels/compgraph/pkg/render/svg
// [png]: github.com/matzehuels/compgraph/pkg/render/png
// [nodelink]: github.com/matzehuels/compgraph/pkg/render/nodelink
// [styles]: github.com/matzehuels/compgraph/pkg/render/styles
package render
