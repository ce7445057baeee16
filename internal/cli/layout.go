package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [mapping.yaml|base.json]",
		Short: "Arrange JSX elements as a tree",
		Long: `Arrange JSX elements as a tree.

The layout command reads a mapping result (or a base layout from 'build')
and places every JSX element at x = root + depth * depth-gap, packing rows
top to bottom in tree order. Other columns are left untouched; edge
endpoints follow the boxes they reference.

The output is a layout.json file that 'visualize' renders without
recomputing. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	addLayoutFlags(cmd, &opts)
	addCacheFlags(cmd, &noCache, &opts.Refresh)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path string, opts pipeline.Options, output string, noCache bool) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}
	opts.Mapping, opts.Layout = in.mapping, in.layout
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()
	res, err := runner.ComputeLayout(ctx, opts)
	if errors.IsEmpty(err) {
		spinner.Stop()
		printEmpty(in.name())
		return nil
	}
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(output, path, ".layout.json")
	if out == path {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", out)
	}
	if err := graph.WriteLayoutFile(res.Layout, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.JSXCount, res.CacheInfo.LayoutHit)
	printWarnings(res.Warnings, 5)
	printNewline()
	printNextStep("Render", "compgraph visualize "+out)
	return nil
}
