package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/render/styles"
)

// pointsPerInch converts layout units (points) to Graphviz node sizes.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the node kind and metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool
	// Ranked lets Graphviz place nodes itself (dot, left to right) instead
	// of pinning them to the layout coordinates.
	Ranked bool
}

// ToDOT converts a layout to Graphviz DOT format.
//
// By default every node is pinned to its layout position (pos="x,y!") so
// that neato reproduces the column picture and only routes the edges. The
// y axis is flipped because Graphviz grows upwards.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Ranked {
		buf.WriteString("  rankdir=LR;\n")
		buf.WriteString("  ranksep=0.6;\n")
		buf.WriteString("  nodesep=0.25;\n")
	} else {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=curved;\n")
		buf.WriteString("  overlap=true;\n")
	}
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := nodeAttrs(n, l.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.From.NodeID == "" || e.To.NodeID == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From.NodeID, e.To.NodeID, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("kind: %s", n.Kind)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(n graph.Node, height float64, opts Options) []string {
	s := styles.NodeStyleFor(n.Kind)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", s.Fill),
		fmt.Sprintf("color=%q", s.Stroke),
		fmt.Sprintf("fontcolor=%q", s.Text),
	}
	if n.Width > 0 && n.Height > 0 && !opts.Detailed {
		attrs = append(attrs,
			"width="+fmtFloat(n.Width/pointsPerInch),
			"height="+fmtFloat(n.Height/pointsPerInch))
	} else {
		attrs = append(attrs, "fixedsize=false")
	}
	if !opts.Ranked {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X), fmtFloat(height-n.Y)))
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	s := styles.EdgeStyleFor(e.Kind)
	attrs := []string{fmt.Sprintf("color=%q", s.Stroke)}
	if s.Dash != "" {
		attrs = append(attrs, "style=dashed")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label), "fontsize=10")
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Pinned graphs (the
// default output of [ToDOT]) go through neato, ranked graphs through dot.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if strings.Contains(dot, "inputscale=") {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which carries pt
// units and a transform-dependent origin, with a plain 0-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
