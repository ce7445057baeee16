// Package cli implements the compgraph command-line interface.
//
// The commands mirror the pipeline stages: build a base layout from a
// mapping result, apply the JSX tree layout, and render artifacts. The CLI
// is built with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - build: mapping result → base column layout (JSON)
//   - layout: mapping result or base layout → tree layout (JSON)
//   - render: mapping result or layout → SVG, PNG, DOT, Graphviz SVG or JSON
//   - visualize: layout → artifacts, without re-running the layout
//   - inspect: browse the placed nodes of a layout in the terminal
//   - serve: run the HTTP API
//   - cache: clear or locate the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports pipeline and cache events. Loggers are passed through
// context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 2 artifacts (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks logs pipeline and cache events at debug level. It is
// registered by --verbose.
type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnBuildStart(_ context.Context, component string) {
	h.logger.Debug("build started", "component", component)
}

func (h *debugHooks) OnBuildComplete(_ context.Context, component string, nodeCount int, d time.Duration, err error) {
	h.logger.Debug("build finished", "component", component, "nodes", nodeCount, "duration", d, "err", err)
}

func (h *debugHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.logger.Debug("layout started", "nodes", nodeCount)
}

func (h *debugHooks) OnLayoutComplete(_ context.Context, placed int, d time.Duration, err error) {
	h.logger.Debug("layout finished", "placed", placed, "duration", d, "err", err)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "err", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
