// Package pipeline runs the build → layout → render pipeline for compgraph.
//
// The CLI and the HTTP server both drive this package, so defaults,
// validation and caching behave the same on every entry point.
//
// # Stages
//
//  1. Build: turn a mapping result into the base column layout
//  2. Layout: validate the layout and apply the JSX tree transform
//  3. Render: produce SVG, PNG, DOT, Graphviz SVG or JSON artifacts
//
// A request may also start from an existing layout, skipping Build.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Mapping: m,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/layout/tree"
	"github.com/matzehuels/compgraph/pkg/mapping"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatJSON     = "json"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatGraphviz, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatJSON:     true,
}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatPNG:      "image/png",
	FormatDOT:      "text/vnd.graphviz",
	FormatGraphviz: "image/svg+xml",
	FormatJSON:     "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It doubles as
// the JSON body of API requests.
type Options struct {
	// Input: exactly one of Mapping or Layout.
	Mapping *mapping.Result `json:"mapping,omitempty"`
	Layout  *graph.Layout   `json:"layout,omitempty"`

	// Layout options
	SkipTree bool    `json:"skip_tree,omitempty"` // Keep the base column layout
	DepthGap float64 `json:"depth_gap,omitempty"`
	RowGap   float64 `json:"row_gap,omitempty"`
	BaseY    float64 `json:"base_y,omitempty"`
	Margin   float64 `json:"margin,omitempty"`
	Strict   bool    `json:"strict,omitempty"` // Fail on layout validation issues

	KeepInside bool `json:"keep_inside,omitempty"` // Shift until whole boxes clear x=0

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Title      string   `json:"title,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"`
	NoHeaders  bool     `json:"no_headers,omitempty"`
	Scale      float64  `json:"scale,omitempty"`  // PNG only
	Ranked     bool     `json:"ranked,omitempty"` // Graphviz ranks nodes instead of pinning them

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Packer tree.Packer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Base is the layout before the tree transform.
	Base graph.Layout

	// Layout is the final layout.
	Layout graph.Layout

	// InputHash identifies the mapping result or input layout.
	InputHash string

	// LayoutHash is the content hash of Layout.
	LayoutHash string

	// Tree describes the transform. Zero on cache hits and passthrough.
	Tree tree.Result

	// Warnings collects build warnings and layout validation issues.
	Warnings []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	JSXCount   int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Layout came from cache
	RenderHit bool // Every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid format: %q (must be one of: svg, png, dot, graphviz, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input and applies defaults for the
// full pipeline. Calling it twice has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the input and applies layout defaults.
func (o *Options) ValidateForLayout() error {
	switch {
	case o.Mapping == nil && o.Layout == nil:
		return errors.New(errors.ErrCodeInvalidInput, "mapping or layout is required")
	case o.Mapping != nil && o.Layout != nil:
		return errors.New(errors.ErrCodeInvalidInput, "mapping and layout are mutually exclusive")
	}
	o.SetLayoutDefaults()
	return nil
}

// SetLayoutDefaults fills unset spacing with the tree defaults.
func (o *Options) SetLayoutDefaults() {
	if o.DepthGap <= 0 {
		o.DepthGap = tree.DefaultDepthGap
	}
	if o.RowGap <= 0 {
		o.RowGap = tree.DefaultRowGap
	}
	if o.BaseY <= 0 {
		o.BaseY = tree.DefaultBaseY
	}
	if o.Margin <= 0 {
		o.Margin = tree.DefaultMargin
	}
	o.setLogger()
}

// ValidateForRender applies render defaults and checks formats and scale.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale %.2f exceeds %.0f", o.Scale, MaxScale)
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TreeOptions returns the tree transform options.
func (o *Options) TreeOptions() []tree.Option {
	opts := []tree.Option{
		tree.WithSpacing(o.DepthGap, o.RowGap),
		tree.WithBaseY(o.BaseY),
		tree.WithMargin(o.Margin),
	}
	if o.KeepInside {
		opts = append(opts, tree.WithKeepInside())
	}
	if o.Packer != nil {
		opts = append(opts, tree.WithPacker(o.Packer))
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		DepthGap:   o.DepthGap,
		RowGap:     o.RowGap,
		BaseY:      o.BaseY,
		Margin:     o.Margin,
		Tree:       !o.SkipTree,
		Strict:     o.Strict,
		KeepInside: o.KeepInside,
	}
	if o.Packer != nil {
		k.Packer = packerName(o.Packer)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Options that do not influence a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Title, k.EdgeLabels, k.Headers = o.Title, o.EdgeLabels, !o.NoHeaders
	case FormatPNG:
		k.Headers, k.Scale = !o.NoHeaders, o.Scale
	case FormatDOT, FormatGraphviz:
		k.Ranked = o.Ranked
	}
	return k
}
