package tree

import (
	"github.com/matzehuels/compgraph/pkg/graph"
)

// Default geometry.
const (
	DefaultDepthGap = 160.0
	DefaultRowGap   = 40.0
	DefaultBaseY    = 80.0
	DefaultMargin   = 40.0
)

// ColumnJSX is the ColX key of the JSX column anchor.
const ColumnJSX = string(graph.KindJSX)

// Option configures the transformer.
type Option func(*config)

type config struct {
	depthGap float64
	rowGap   float64
	baseY    float64
	margin   float64
	inside   bool
	packer   Packer
}

func defaultConfig() config {
	return config{
		depthGap: DefaultDepthGap,
		rowGap:   DefaultRowGap,
		baseY:    DefaultBaseY,
		margin:   DefaultMargin,
		packer:   DepthPacker{},
	}
}

// WithSpacing sets the horizontal gap between depths and the vertical gap
// between rows. Non-positive values keep the defaults.
func WithSpacing(depthGap, rowGap float64) Option {
	return func(c *config) {
		if depthGap > 0 {
			c.depthGap = depthGap
		}
		if rowGap > 0 {
			c.rowGap = rowGap
		}
	}
}

// WithBaseY sets the y-coordinate of row 0. Negative values keep the default.
func WithBaseY(y float64) Option {
	return func(c *config) {
		if y >= 0 {
			c.baseY = y
		}
	}
}

// WithMargin sets the canvas margin around repositioned boxes. Negative
// values keep the default.
func WithMargin(m float64) Option {
	return func(c *config) {
		if m >= 0 {
			c.margin = m
		}
	}
}

// WithKeepInside widens the left shift so that every repositioned box, not
// just its center, stays at least margin away from x=0.
func WithKeepInside() Option {
	return func(c *config) { c.inside = true }
}

// WithPacker replaces the row assignment strategy. A nil packer keeps
// [DepthPacker].
func WithPacker(p Packer) Option {
	return func(c *config) {
		if p != nil {
			c.packer = p
		}
	}
}

// Placement records where a JSX node ended up.
type Placement struct {
	ID       string  `json:"id"`
	Depth    int     `json:"depth"`
	Row      int     `json:"row"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Promoted bool    `json:"promoted,omitempty"`
}

// Result describes a transformation.
type Result struct {
	// Placements are in packer visit order.
	Placements []Placement `json:"placements"`
	Roots      []string    `json:"roots"`
	Promoted   []string    `json:"promoted,omitempty"`
	MaxDepth   int         `json:"max_depth"`
	CenterX    float64     `json:"center_x"`
	// ShiftX is the distance the family was moved right to keep every
	// center (or every box, with [WithKeepInside]) inside the canvas.
	ShiftX float64 `json:"shift_x"`
	// EdgesUpdated counts the rewritten edge endpoints.
	EdgesUpdated int `json:"edges_updated"`
}

// Transform returns l with its JSX family laid out as a tree.
func Transform(l graph.Layout, opts ...Option) graph.Layout {
	out, _ := Layout(l, opts...)
	return out
}

// Layout is Transform with introspection. A layout without JSX nodes is
// returned as is together with a zero Result.
func Layout(l graph.Layout, opts ...Option) (graph.Layout, Result) {
	if !l.HasKind(graph.KindJSX) {
		return l, Result{}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	out := l.Clone()
	f := Resolve(out.Nodes)
	slots := cfg.packer.Pack(f)

	res := Result{
		Roots:    f.Roots,
		Promoted: f.Promoted,
		MaxDepth: f.MaxDepth(),
		CenterX:  centerX(out),
	}
	if out.ColX == nil {
		out.ColX = make(map[string]float64, 1)
	}
	out.ColX[ColumnJSX] = res.CenterX

	idx := out.Index()
	promoted := make(map[string]bool, len(f.Promoted))
	for _, id := range f.Promoted {
		promoted[id] = true
	}

	left := res.CenterX - float64(res.MaxDepth)*cfg.depthGap/2
	res.Placements = make([]Placement, 0, len(slots))
	minLeft := 0.0
	for _, s := range slots {
		i, ok := idx[s.ID]
		if !ok || !out.Nodes[i].IsJSX() {
			continue
		}
		p := Placement{
			ID:       s.ID,
			Depth:    s.Depth,
			Row:      s.Row,
			X:        left + float64(s.Depth)*cfg.depthGap,
			Y:        cfg.baseY + float64(s.Row)*cfg.rowGap,
			Promoted: promoted[s.ID],
		}
		edge := p.X
		if cfg.inside {
			edge -= out.Nodes[i].Width/2 + cfg.margin
		}
		minLeft = min(minLeft, edge)
		res.Placements = append(res.Placements, p)
	}

	if minLeft < 0 {
		res.ShiftX = -minLeft
	}
	moved := make(map[string]int, len(slots))
	for i := range res.Placements {
		p := &res.Placements[i]
		p.X += res.ShiftX
		n := &out.Nodes[idx[p.ID]]
		n.X, n.Y = p.X, p.Y
		moved[p.ID] = idx[p.ID]
	}

	res.EdgesUpdated = reconcileEdges(&out, moved)
	growBounds(&out, moved, cfg.margin)
	return out, res
}

// centerX returns the JSX column anchor, falling back to the first JSX
// node's x when the layout has no anchor for it.
func centerX(l graph.Layout) float64 {
	if x, ok := l.ColX[ColumnJSX]; ok {
		return x
	}
	for i := range l.Nodes {
		if l.Nodes[i].IsJSX() {
			return l.Nodes[i].X
		}
	}
	return 0
}
