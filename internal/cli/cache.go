package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			fc, ok := store.(*cache.FileCache)
			if !ok {
				printInfo("The %s backend expires entries on its own; nothing to clear locally", c.backend())
				return nil
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.backend() {
			case cache.BackendFile:
				dir := c.Config.Cache.Dir
				if dir == "" {
					d, err := cache.DefaultDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = d
				}
				fmt.Fprintln(stdout, dir)
			default:
				printInfo("Cache backend is %s; it has no local directory", c.backend())
			}
			return nil
		},
	}
}

func (c *CLI) backend() string {
	if c.Config.Cache.Backend == "" {
		return cache.BackendFile
	}
	return c.Config.Cache.Backend
}
