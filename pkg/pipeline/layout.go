package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/graph/build"
	"github.com/matzehuels/compgraph/pkg/layout/tree"
	"github.com/matzehuels/compgraph/pkg/mapping"
	"github.com/matzehuels/compgraph/pkg/observability"
)

// =============================================================================
// Build
// =============================================================================

// Build turns a mapping result into the base column layout.
func Build(ctx context.Context, m *mapping.Result) (graph.Layout, []string, error) {
	component := ""
	if m != nil {
		component = m.Component
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, component)
	start := time.Now()

	l, warnings, err := build.Build(m)
	hooks.OnBuildComplete(ctx, component, len(l.Nodes), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, nil, err
	}
	return l, warnings, nil
}

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout validates base and applies the tree transform unless
// opts.SkipTree is set. Validation issues become warnings, or an
// INVALID_LAYOUT error in strict mode.
func ComputeLayout(ctx context.Context, base graph.Layout, opts Options) (graph.Layout, tree.Result, []string, error) {
	opts.SetLayoutDefaults()
	if base.IsEmpty() {
		return graph.Layout{}, tree.Result{}, nil, errors.New(errors.ErrCodeEmptyGraph, "layout has no nodes")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(base.Nodes))
	start := time.Now()

	issues, err := graph.Validate(base, graph.ValidateOptions{Strict: opts.Strict})
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return graph.Layout{}, tree.Result{}, nil, err
	}
	warnings := make([]string, 0, len(issues))
	for _, is := range issues {
		warnings = append(warnings, is.String())
	}

	if opts.SkipTree {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), nil)
		return base, tree.Result{}, warnings, nil
	}

	out, res := tree.Layout(base, opts.TreeOptions()...)
	hooks.OnLayoutComplete(ctx, len(res.Placements), time.Since(start), nil)

	opts.Logger.Debug("tree transform",
		"placed", len(res.Placements),
		"roots", len(res.Roots),
		"promoted", len(res.Promoted),
		"max_depth", res.MaxDepth,
		"shift_x", res.ShiftX,
		"edges_updated", res.EdgesUpdated)
	return out, res, warnings, nil
}

func packerName(p tree.Packer) string {
	return fmt.Sprintf("%T", p)
}
