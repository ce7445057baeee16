package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/layout/tree"
	"github.com/matzehuels/compgraph/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses DefaultKeyer, a nil cache
// disables caching and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// layoutEntry is the cached form of a layout stage result.
type layoutEntry struct {
	Base     graph.Layout `json:"base"`
	Layout   graph.Layout `json:"layout"`
	Tree     tree.Result  `json:"tree"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Execute runs build → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res.Layout, res.LayoutHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(renderStart)
	res.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// ComputeLayout runs the build and layout stages. The transformed layout
// is cached under the hash of the input and the layout options.
func (r *Runner) ComputeLayout(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	inputHash, err := hashInput(opts)
	if err != nil {
		return nil, err
	}
	res := &Result{InputHash: inputHash}
	key := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if entry, ok := r.cachedLayout(ctx, key); ok {
			res.Base = entry.Base
			res.Layout = entry.Layout
			res.Tree = entry.Tree
			res.Warnings = entry.Warnings
			res.CacheInfo.LayoutHit = true
			r.finishLayout(res)
			r.Logger.Debug("layout cache hit", "nodes", res.Stats.NodeCount)
			return res, nil
		}
	}

	base := graph.Layout{}
	if opts.Mapping != nil {
		buildStart := time.Now()
		l, warnings, err := Build(ctx, opts.Mapping)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		base = l
		res.Warnings = append(res.Warnings, warnings...)
		res.Stats.BuildTime = time.Since(buildStart)
		r.Logger.Info("built base layout",
			"component", opts.Mapping.Component,
			"nodes", len(base.Nodes),
			"edges", len(base.Edges),
			"duration", res.Stats.BuildTime)
	} else {
		base = opts.Layout.Clone()
	}
	res.Base = base

	layoutStart := time.Now()
	out, tr, warnings, err := ComputeLayout(ctx, base, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Layout = out
	res.Tree = tr
	res.Warnings = append(res.Warnings, warnings...)
	res.Stats.LayoutTime = time.Since(layoutStart)
	r.finishLayout(res)

	for _, w := range res.Warnings {
		r.Logger.Warn(w)
	}
	r.Logger.Info("computed layout",
		"jsx", res.Stats.JSXCount,
		"max_depth", tr.MaxDepth,
		"duration", res.Stats.LayoutTime)

	if data, err := json.Marshal(layoutEntry{Base: base, Layout: out, Tree: tr, Warnings: res.Warnings}); err == nil {
		r.store(ctx, cache.KeyTypeLayout, key, data, cache.TTLLayout)
	}
	return res, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts. Only the formats missing from the cache are rendered. The
// boolean reports whether all formats were cached.
//
// layoutHash may be empty, in which case it is computed from l.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	if layoutHash == "" {
		data, err := graph.MarshalLayout(l)
		if err != nil {
			return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
		}
		layoutHash = cache.Hash(data)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup || slices.Contains(missing, format) {
			continue
		}
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, cache.KeyTypeArtifact, key); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for _, format := range missing {
		artifacts[format] = rendered[format]
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cache.KeyTypeArtifact, key, rendered[format], cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, "", opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (layoutEntry, bool) {
	data, ok := r.lookup(ctx, cache.KeyTypeLayout, key)
	if !ok {
		return layoutEntry{}, false
	}
	var entry layoutEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		return layoutEntry{}, false
	}
	return entry, true
}

// lookup reads key and reports the outcome to the cache hooks. Backend
// failures are logged and treated as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) finishLayout(res *Result) {
	if data, err := graph.MarshalLayout(res.Layout); err == nil {
		res.LayoutHash = cache.Hash(data)
	}
	res.Stats.NodeCount = len(res.Layout.Nodes)
	res.Stats.EdgeCount = len(res.Layout.Edges)
	res.Stats.JSXCount = res.Layout.CountKind(graph.KindJSX)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashInput(opts Options) (string, error) {
	var (
		data []byte
		err  error
	)
	if opts.Mapping != nil {
		data, err = json.Marshal(opts.Mapping)
	} else {
		data, err = graph.MarshalLayout(*opts.Layout)
	}
	if err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return cache.Hash(data), nil
}
