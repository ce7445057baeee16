package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/buildinfo"
	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/config"
	"github.com/matzehuels/compgraph/pkg/observability"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "compgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "compgraph draws the internal structure of a UI component",
		Long: `compgraph turns a component mapping result (independents, state, derived
variables, effects, JSX elements and externals) into a column diagram. JSX
elements are arranged as an indented tree; every other entity keeps its column.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/compgraph/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun applies --verbose, loads the configuration and attaches the
// logger to the command context.
func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.SetPipelineHooks(&debugHooks{logger: c.Logger})
		observability.SetCacheHooks(&debugHooks{logger: c.Logger})
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Validate() {
		c.Logger.Warn("config", "issue", w)
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. Keys
// are scoped by version so upgrades never read entries of older layouts.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cache.NewScopedKeyer(nil, buildinfo.Version), c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	c.Logger.Debug("cache ready", "backend", c.Config.Cache.Backend)
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills options left unset by flags from the configuration.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	lc := c.Config.Layout
	if opts.DepthGap <= 0 {
		opts.DepthGap = lc.DepthGap
	}
	if opts.RowGap <= 0 {
		opts.RowGap = lc.RowGap
	}
	if opts.BaseY <= 0 {
		opts.BaseY = lc.BaseY
	}
	if opts.Margin <= 0 {
		opts.Margin = lc.Margin
	}

	rc := c.Config.Render
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), rc.Formats...)
	}
	if opts.Scale <= 0 {
		opts.Scale = rc.Scale
	}
	opts.EdgeLabels = opts.EdgeLabels || rc.EdgeLabels
	opts.NoHeaders = opts.NoHeaders || !rc.Headers
	opts.Logger = c.Logger
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the configured formats apply.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := pipeline.ValidateFormat(f); err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
