// Package pkg provides the core libraries of compgraph.
//
// # Overview
//
// compgraph draws the internal structure of a single UI component: the
// values it receives, the state it owns, what it derives from them, its
// effects, the JSX tree it returns and the externals it calls. The pkg
// directory is organized into these areas:
//
//  1. [mapping] - The decoded mapping result (JSON or YAML)
//  2. [graph] - Layout types, serialization and validation
//  3. [graph/build] - Mapping result → base column layout
//  4. [layout/tree] - The JSX tree layout transform
//  5. [render] - SVG, PNG and Graphviz sinks plus shared styles
//  6. [pipeline] - Orchestration (build → layout → render) with caching
//  7. [cache], [config], [observability], [errors], [buildinfo] - Infrastructure
//
// # Data Flow
//
//	mapping result (.yaml / .json)
//	         ↓
//	    [graph/build] (one column per entity kind, one edge per dependency)
//	         ↓
//	    [layout/tree] (JSX elements indented by depth, rows in tree order)
//	         ↓
//	    [render] sinks
//	         ↓
//	SVG / PNG / DOT / Graphviz SVG / layout JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/compgraph/pkg/mapping"
//	    "github.com/matzehuels/compgraph/pkg/pipeline"
//	)
//
//	m, _ := mapping.ReadFile("todo.yaml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{Mapping: m})
//	os.WriteFile("todo.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// Lower-level use skips the pipeline:
//
//	base, _, _ := build.Build(m)
//	l := tree.Transform(base, tree.WithSpacing(160, 40))
//	data := svg.Render(l, svg.WithTitle(m.Component))
//
// # Invariants
//
// The tree transform never mutates its input, only moves JSX nodes, and is
// idempotent: a transformed layout records the JSX column anchor it used,
// so running it again yields the same positions. Edge endpoints that
// reference a moved node follow it; free-floating endpoints are kept.
//
// [mapping]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/mapping
// [graph]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/graph
// [graph/build]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/graph/build
// [layout/tree]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/layout/tree
// [render]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/buildinfo
package pkg
