package pipeline

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/mapping"
	"github.com/matzehuels/compgraph/pkg/observability"
)

func todoMapping() *mapping.Result {
	return &mapping.Result{
		Component:    "TodoList",
		Independents: []mapping.Independent{{Name: "items"}},
		States:       []mapping.State{{Name: "filter", Setter: "setFilter"}},
		Variables:    []mapping.Variable{{Name: "visible", Deps: []string{"items", "filter", "missing"}}},
		JSX: []mapping.Element{
			{ID: "list", Tag: "ul"},
			{ID: "item", Tag: "li", Parent: "list", Uses: []string{"visible"}},
		},
	}
}

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"graphviz", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ValidateFormat(%q) code = %s, want UNSUPPORTED", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"both inputs", Options{Mapping: todoMapping(), Layout: &graph.Layout{}}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Mapping: todoMapping(), Formats: []string{"pdf"}}, errors.ErrCodeUnsupported},
		{"huge scale", Options{Mapping: todoMapping(), Scale: 50}, errors.ErrCodeInvalidInput},
		{"ok", Options{Mapping: todoMapping()}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{Mapping: todoMapping(), RowGap: 55}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.DepthGap != 160 || opts.RowGap != 55 || opts.BaseY != 80 || opts.Margin != 40 {
		t.Errorf("layout defaults = %v/%v/%v/%v", opts.DepthGap, opts.RowGap, opts.BaseY, opts.Margin)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Title: "T", EdgeLabels: true, Scale: 3}
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Title != "" || k.EdgeLabels || k.Scale != 0 {
		t.Errorf("json key carries svg options: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Title != "T" || !k.EdgeLabels || !k.Headers {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 || k.Title != "" {
		t.Errorf("png key = %+v", k)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Mapping: todoMapping(),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 5 || res.Stats.JSXCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "missing") {
		t.Errorf("Warnings = %v, want the unknown dependency", res.Warnings)
	}
	if res.Tree.MaxDepth != 1 || len(res.Tree.Placements) != 2 {
		t.Errorf("Tree = %+v", res.Tree)
	}
	if res.InputHash == "" || res.LayoutHash == "" {
		t.Error("hashes not set")
	}

	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact has no PNG signature")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatDOT], []byte("digraph G {")) {
		t.Error("dot artifact is not DOT source")
	}
	l, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(l.Nodes) != len(res.Layout.Nodes) {
		t.Errorf("json artifact has %d nodes, want %d", len(l.Nodes), len(res.Layout.Nodes))
	}

	// The child sits one depth gap right of its parent.
	list, _ := res.Layout.Node("jsx:0")
	item, _ := res.Layout.Node("jsx:1")
	if item.X-list.X != 160 {
		t.Errorf("child x offset = %v, want 160", item.X-list.X)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Mapping: todoMapping(), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if c.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (layout + 2 artifacts)", c.sets)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if len(second.Warnings) != len(first.Warnings) {
		t.Errorf("cached warnings = %v, want %v", second.Warnings, first.Warnings)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("layout hash changed between runs")
	}

	refresh := opts
	refresh.Refresh = true
	third, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}

	spaced := opts
	spaced.DepthGap = 200
	fourth, err := r.Execute(ctx, spaced)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("different spacing should not hit the layout cache")
	}
}

func TestRenderOnlyMissingFormats(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	res, err := r.ComputeLayout(ctx, Options{Mapping: todoMapping()})
	if err != nil {
		t.Fatal(err)
	}
	before := c.sets
	if _, _, err := r.RenderWithCacheInfo(ctx, res.Layout, res.LayoutHash, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res.Layout, res.LayoutHash, Options{Formats: []string{FormatSVG, FormatJSON, FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("json was never cached, want RenderHit false")
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(artifacts))
	}
	if got := c.sets - before; got != 2 {
		t.Errorf("artifact writes = %d, want 2", got)
	}
}

func TestExecuteEmpty(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Mapping: &mapping.Result{Component: "Blank"}})
	if !errors.IsEmpty(err) {
		t.Errorf("err = %v, want EMPTY_GRAPH", err)
	}

	_, err = r.Execute(context.Background(), Options{Layout: &graph.Layout{Width: 100, Height: 100}})
	if !errors.IsEmpty(err) {
		t.Errorf("empty layout err = %v, want EMPTY_GRAPH", err)
	}
}

func TestExecuteLayoutInput(t *testing.T) {
	in := graph.Layout{
		Nodes: []graph.Node{
			{ID: "state:0", Kind: graph.KindState, X: 320, Y: 80, Width: 140, Height: 28},
		},
		ColX:   map[string]float64{"state": 320},
		Width:  1280,
		Height: 160,
	}
	r := NewRunner(nil, nil, nil)
	res, err := r.ComputeLayout(context.Background(), Options{Layout: &in})
	if err != nil {
		t.Fatal(err)
	}
	if res.Layout.Nodes[0].X != 320 || res.Layout.Width != 1280 {
		t.Error("layout without jsx nodes should pass through unchanged")
	}
	if len(res.Tree.Placements) != 0 {
		t.Error("passthrough should not place nodes")
	}
}

func TestSkipTree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.ComputeLayout(context.Background(), Options{Mapping: todoMapping(), SkipTree: true})
	if err != nil {
		t.Fatal(err)
	}
	list, _ := res.Layout.Node("jsx:0")
	item, _ := res.Layout.Node("jsx:1")
	if list.X != item.X {
		t.Errorf("SkipTree kept the column: x %v vs %v", list.X, item.X)
	}
}

func TestStrictValidation(t *testing.T) {
	in := graph.Layout{
		Nodes: []graph.Node{
			{ID: "a", Kind: graph.KindJSX, Width: 10, Height: 10},
			{ID: "a", Kind: graph.KindJSX, Width: 10, Height: 10},
		},
		Width: 100, Height: 100,
	}
	r := NewRunner(nil, nil, nil)

	res, err := r.ComputeLayout(context.Background(), Options{Layout: &in})
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("lenient warnings = %v, want 1", res.Warnings)
	}

	_, err = r.ComputeLayout(context.Background(), Options{Layout: &in, Strict: true})
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("strict err = %v, want INVALID_LAYOUT", err)
	}
}

func TestStrictIgnoresLenientCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	in := graph.Layout{
		Nodes: []graph.Node{
			{ID: "jsx:0", Kind: graph.KindJSX, X: 920, Y: 80, Width: 140, Height: 28},
		},
		Edges: []graph.Edge{
			{ID: "e", Kind: graph.EdgeFlow,
				From: graph.Endpoint{NodeID: "jsx:0", X: 920, Y: 80},
				To:   graph.Endpoint{NodeID: "ghost", X: 1000, Y: 80}},
		},
		ColX:  map[string]float64{"jsx": 920},
		Width: 1280, Height: 200,
	}

	if _, err := r.ComputeLayout(ctx, Options{Layout: &in}); err != nil {
		t.Fatalf("lenient: %v", err)
	}
	res, err := r.ComputeLayout(ctx, Options{Layout: &in, Strict: true})
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("strict after lenient run: err = %v, want INVALID_LAYOUT", err)
	}
	if res != nil && res.CacheInfo.LayoutHit {
		t.Error("strict run was served the lenient layout")
	}

	valid := in.Clone()
	valid.Edges = nil
	if _, err := r.ComputeLayout(ctx, Options{Layout: &valid, Strict: true}); err != nil {
		t.Fatalf("strict valid: %v", err)
	}
	again, err := r.ComputeLayout(ctx, Options{Layout: &valid, Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit {
		t.Error("strict layouts should still be cached")
	}
}

func TestCachedLayoutKeepsTree(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Mapping: todoMapping()}

	first, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.ComputeLayout(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Fatal("second run missed the cache")
	}
	if !reflect.DeepEqual(second.Tree, first.Tree) {
		t.Errorf("cached tree = %+v, want %+v", second.Tree, first.Tree)
	}
	if len(second.Tree.Roots) != 1 || second.Tree.MaxDepth != 1 {
		t.Errorf("cached tree roots=%v depth=%d, want 1 root at depth 1", second.Tree.Roots, second.Tree.MaxDepth)
	}
	if len(second.Base.Nodes) != len(first.Base.Nodes) || len(second.Base.Nodes) == 0 {
		t.Errorf("cached base has %d nodes, want %d", len(second.Base.Nodes), len(first.Base.Nodes))
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	base := Options{Mapping: todoMapping()}
	base.SetLayoutDefaults()
	keyer := cache.NewDefaultKeyer()
	key := func(o Options) string { return keyer.LayoutKey("h", o.LayoutKeyOpts()) }

	strict, inside := base, base
	strict.Strict = true
	inside.KeepInside = true
	if key(strict) == key(base) {
		t.Error("strict and lenient runs share a layout key")
	}
	if key(inside) == key(base) {
		t.Error("KeepInside does not change the layout key")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu               sync.Mutex
	hits, miss, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.miss++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

func TestCacheHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), cache.NewScopedKeyer(nil, "test:"), nil)
	opts := Options{Mapping: todoMapping()}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}
	if h.miss != 2 || h.sets != 2 || h.hits != 2 {
		t.Errorf("hooks hits=%d miss=%d sets=%d, want 2/2/2", h.hits, h.miss, h.sets)
	}
}

func TestRenderGraphviz(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Mapping: todoMapping(), Formats: []string{FormatGraphviz}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatGraphviz], []byte("<svg")) {
		t.Error("graphviz artifact is not SVG")
	}
}
