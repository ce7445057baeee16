package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// extensions maps formats to output file suffixes. JSON layouts get a
// compound suffix so they never collide with a JSON mapping input.
var extensions = map[string]string{
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatPNG:      ".png",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatGraphviz: ".graphviz.svg",
	pipeline.FormatJSON:     ".layout.json",
}

// renderCommand creates the render command, which runs the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [mapping.yaml|layout.json]",
		Short: "Render a mapping result to SVG, PNG, DOT or JSON",
		Long: `Render a mapping result to SVG, PNG, DOT or JSON.

The render command runs build, layout and render in one step. With several
formats, -o names the base path and each artifact gets its own extension.

Layouts and artifacts are cached; use --refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.Formats = formats
			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			opts.Mapping, opts.Layout = in.mapping, in.layout
			return c.runRender(cmd.Context(), in, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr)
	addCacheFlags(cmd, &noCache, &opts.Refresh)
	return cmd
}

// runRender executes the pipeline for in and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, in input, opts pipeline.Options, output string, noCache bool) error {
	c.applyConfig(&opts)
	if opts.Title == "" && in.mapping != nil {
		opts.Title = in.mapping.Component
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+in.name()+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if errors.IsEmpty(err) {
		spinner.Stop()
		printEmpty(in.name())
		return nil
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, in.path, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", in.name())
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.JSXCount, res.CacheInfo.RenderHit)
	printWarnings(res.Warnings, 5)
	return nil
}

// artifactPaths returns the output file of each format, in format order.
func artifactPaths(formats []string, input, output string) []string {
	paths := make([]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[0] = output
		return paths
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		base = output
		for _, ext := range []string{".graphviz.svg", ".layout.json", ".svg", ".png", ".dot", ".json"} {
			if strings.HasSuffix(base, ext) {
				base = strings.TrimSuffix(base, ext)
				break
			}
		}
	}
	for i, f := range formats {
		paths[i] = base + extensions[f]
	}
	return paths
}

// writeArtifacts writes every requested artifact and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := artifactPaths(formats, input, output)
	for i, f := range formats {
		if paths[i] == input {
			return nil, errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", paths[i])
		}
		if dir := filepath.Dir(paths[i]); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(paths[i], artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", paths[i], err)
		}
	}
	return paths, nil
}
