package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build [mapping.yaml]",
		Short: "Build the base column layout from a mapping result",
		Long: `Build the base column layout from a mapping result.

Every entity gets a box in the column of its kind (independents, state,
variables, effects, jsx, externals) and every dependency becomes an edge.
JSX elements are stacked in their column without the tree layout; use
'layout' to arrange them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.base.json)")
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, path, output string) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}
	if in.mapping == nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s is already a layout", path)
	}

	prog := newProgress(c.Logger)
	base, warnings, err := pipeline.Build(ctx, in.mapping)
	if errors.IsEmpty(err) {
		printEmpty(in.name())
		return nil
	}
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Built %s", in.name()))

	out := outputPath(output, path, ".base.json")
	if err := graph.WriteLayoutFile(base, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Base layout complete")
	printFile(out)
	printStats(len(base.Nodes), len(base.Edges), base.CountKind(graph.KindJSX), false)
	printWarnings(warnings, 5)
	printNewline()
	printNextStep("Arrange", "compgraph layout "+out)
	return nil
}
