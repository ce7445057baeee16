// Package svg renders component graph layouts as SVG documents.
//
// Every node becomes a rounded rectangle styled by its kind, every edge a
// cubic S-curve with an arrowhead marker, and each column anchor a header
// at the top of the canvas:
//
//	data := svg.Render(l, svg.WithTitle("TodoList"), svg.WithEdgeLabels())
//
// [RenderEmpty] produces the neutral placeholder document shown when a
// mapping result has nothing to draw.
package svg

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/render/styles"
)

// HeaderY is the baseline of the column headers.
const HeaderY = 40.0

const (
	cornerRadius = 6.0
	labelOffset  = 10.0
	emptyWidth   = 480.0
	emptyHeight  = 120.0
)

const edgeCSS = `
    .node text { font-family: ui-monospace, Menlo, monospace; font-size: 12px; }
    .column-header { font-family: ui-sans-serif, Helvetica, sans-serif; font-size: 13px; font-weight: 600; fill: #546e7a; text-transform: uppercase; }
    .edge-label { font-family: ui-sans-serif, Helvetica, sans-serif; font-size: 10px; fill: #455a64; }
    .edge { transition: stroke-width 0.2s ease; }
    .edge:hover { stroke-width: 3; }`

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	title      string
	edgeLabels bool
	headers    bool
}

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithEdgeLabels draws edge labels at the curve midpoints.
func WithEdgeLabels() Option { return func(r *renderer) { r.edgeLabels = true } }

// WithHeaders toggles column headers (default on).
func WithHeaders(on bool) Option { return func(r *renderer) { r.headers = on } }

func newRenderer(opts ...Option) renderer {
	r := renderer{headers: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render returns the SVG document for l.
func Render(l graph.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	renderDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", edgeCSS)
	buf.WriteString(`  <rect class="background" width="100%" height="100%" fill="white"/>` + "\n")

	if r.headers {
		renderHeaders(&buf, l.ColX)
	}
	renderEdges(&buf, l, r.edgeLabels)
	renderNodes(&buf, l.Nodes)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderEmpty returns a placeholder document showing msg.
func RenderEmpty(msg string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		emptyWidth, emptyHeight, emptyWidth, emptyHeight)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="#fafafa" stroke="#e0e0e0"/>`+"\n")
	fmt.Fprintf(&buf, `  <text class="empty-state" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="ui-sans-serif, Helvetica, sans-serif" font-size="14" fill="#757575">%s</text>`+"\n",
		emptyWidth/2, emptyHeight/2, styles.EscapeXML(msg))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, m := range styles.Markers() {
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">`, m.Marker)
		fmt.Fprintf(buf, `<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", m.Stroke)
	}
	buf.WriteString("  </defs>\n")
}

type header struct {
	name string
	x    float64
}

func renderHeaders(buf *bytes.Buffer, colX map[string]float64) {
	if len(colX) == 0 {
		return
	}
	headers := make([]header, 0, len(colX))
	for name, x := range colX {
		headers = append(headers, header{name, x})
	}
	slices.SortFunc(headers, func(a, b header) int {
		return cmp.Or(cmp.Compare(a.x, b.x), cmp.Compare(a.name, b.name))
	})

	buf.WriteString(`  <g class="headers">` + "\n")
	for _, h := range headers {
		fmt.Fprintf(buf, `    <text class="column-header" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			h.x, HeaderY, styles.EscapeXML(h.name))
	}
	buf.WriteString("  </g>\n")
}

func renderEdges(buf *bytes.Buffer, l graph.Layout, labels bool) {
	nodes := make(map[string]*graph.Node, len(l.Nodes))
	for i := range l.Nodes {
		if _, dup := nodes[l.Nodes[i].ID]; !dup {
			nodes[l.Nodes[i].ID] = &l.Nodes[i]
		}
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range l.Edges {
		x1, y1, x2, y2 := Anchors(e, nodes)
		s := styles.EdgeStyleFor(e.Kind)
		fmt.Fprintf(buf, `    <path id="edge-%s" class="edge edge-%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"`,
			styles.EscapeXML(e.ID), styles.EscapeXML(string(e.Kind)), styles.CurvePath(x1, y1, x2, y2), s.Stroke)
		if s.Dash != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, s.Dash)
		}
		fmt.Fprintf(buf, ` marker-end="url(#%s)"/>`+"\n", s.Marker)

		if labels && e.Label != "" {
			mx, my := styles.CurveMidpoint(x1, y1, x2, y2)
			fmt.Fprintf(buf, `    <text class="edge-label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
				mx, my-labelOffset/2, styles.EscapeXML(e.Label))
		}
	}
	buf.WriteString("  </g>\n")
}

func renderNodes(buf *bytes.Buffer, nodes []graph.Node) {
	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range nodes {
		s := styles.NodeStyleFor(n.Kind)
		fmt.Fprintf(buf, `    <g id="node-%s" class="node node-%s">`, styles.EscapeXML(n.ID), styles.EscapeXML(string(n.Kind)))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s"/>`,
			n.Left(), n.Top(), n.Width, n.Height, cornerRadius, s.Fill, s.Stroke)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text></g>`+"\n",
			n.X, n.Y, s.Text, styles.EscapeXML(styles.TruncateLabel(n.DisplayLabel(), n.Width)))
	}
	buf.WriteString("  </g>\n")
}

// Anchors returns the drawn start and end points of e. Endpoints that
// reference a known node are moved from the box center to the box side
// facing the other endpoint; free-floating endpoints are used as is.
func Anchors(e graph.Edge, nodes map[string]*graph.Node) (x1, y1, x2, y2 float64) {
	x1, y1, x2, y2 = e.From.X, e.From.Y, e.To.X, e.To.Y
	from, to := nodes[e.From.NodeID], nodes[e.To.NodeID]

	switch {
	case x2 > x1:
		if from != nil {
			x1 += from.Width / 2
		}
		if to != nil {
			x2 -= to.Width / 2
		}
	case x2 < x1:
		if from != nil {
			x1 -= from.Width / 2
		}
		if to != nil {
			x2 += to.Width / 2
		}
	case y2 > y1:
		if from != nil {
			y1 += from.Height / 2
		}
		if to != nil {
			y2 -= to.Height / 2
		}
	case y2 < y1:
		if from != nil {
			y1 -= from.Height / 2
		}
		if to != nil {
			y2 += to.Height / 2
		}
	}
	return x1, y1, x2, y2
}
