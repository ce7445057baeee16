package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Routes:
  POST /v1/layout              mapping result or layout → tree layout (JSON)
  POST /v1/render?format=svg   mapping result or layout → artifact
  GET  /healthz                liveness and cache health

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc := c.Config.Server
	if addr == "" {
		addr = sc.Addr
	}
	srv := server.New(runner, c.Logger, server.Config{
		Addr:            addr,
		ReadTimeout:     sc.ReadTimeout,
		WriteTimeout:    sc.WriteTimeout,
		RequestTimeout:  sc.RequestTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
		MaxBodyBytes:    sc.MaxBodyBytes,
	})
	return srv.Run(ctx)
}
