package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/observability"
	"github.com/matzehuels/compgraph/pkg/render/nodelink"
	"github.com/matzehuels/compgraph/pkg/render/png"
	"github.com/matzehuels/compgraph/pkg/render/svg"
)

// pngSupersample is the oversampling factor used for PNG output.
const pngSupersample = 3

// Render produces the requested formats concurrently. Every goroutine
// reads the same layout, which must not be modified while Render runs.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(gctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat produces a single artifact.
func RenderFormat(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		return svg.Render(l, svgOptions(opts)...), nil
	case FormatPNG:
		var buf bytes.Buffer
		err := png.Render(&buf, l, png.Options{
			Scale:       opts.Scale,
			Supersample: pngSupersample,
			Headers:     !opts.NoHeaders,
		})
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Ranked: opts.Ranked})), nil
	case FormatGraphviz:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Ranked: opts.Ranked}))
	default:
		return graph.MarshalLayout(l)
	}
}

func svgOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.Title != "" {
		out = append(out, svg.WithTitle(opts.Title))
	}
	if opts.EdgeLabels {
		out = append(out, svg.WithEdgeLabels())
	}
	if opts.NoHeaders {
		out = append(out, svg.WithHeaders(false))
	}
	return out
}
