package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render artifacts from a computed layout",
		Long: `Render artifacts from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it as is: positions are not recomputed, only validated.

Use 'render' to go directly from a mapping result to artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			in, err := loadLayout(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			opts.Formats = formats
			opts.Layout = in.layout
			opts.SkipTree = true
			return c.runRender(cmd.Context(), in, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on layout validation issues")
	addRenderFlags(cmd, &opts, &formatsStr)
	addCacheFlags(cmd, &noCache, &opts.Refresh)
	return cmd
}
