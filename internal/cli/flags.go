package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// addLayoutFlags registers the tree layout flags. Zero values defer to
// the configuration file.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.DepthGap, "depth-gap", 0, "horizontal distance between tree depths (default 160)")
	cmd.Flags().Float64Var(&opts.RowGap, "row-gap", 0, "vertical distance between rows (default 40)")
	cmd.Flags().Float64Var(&opts.BaseY, "base-y", 0, "y of the first row (default 80)")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "canvas margin around moved nodes (default 40)")
	cmd.Flags().BoolVar(&opts.SkipTree, "skip-tree", false, "keep the base column layout")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on layout validation issues")
	cmd.Flags().BoolVar(&opts.KeepInside, "keep-inside", false, "shift the tree until whole boxes clear the left edge")
}

// addRenderFlags registers the artifact flags.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): svg, png, dot, graphviz, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title (default: component name)")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "draw edge labels")
	cmd.Flags().BoolVar(&opts.NoHeaders, "no-headers", false, "omit column headers")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&opts.Ranked, "ranked", false, "let Graphviz rank nodes instead of pinning them")
}

// addCacheFlags registers the cache flags shared by pipeline commands.
func addCacheFlags(cmd *cobra.Command, noCache, refresh *bool) {
	cmd.Flags().BoolVar(noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(refresh, "refresh", false, "recompute even when cached")
}
