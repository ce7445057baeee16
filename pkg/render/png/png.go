// Package png rasterizes component graph layouts without external tools.
//
// The picture mirrors the SVG sink: kind-styled boxes, S-curve edges with
// arrowheads and column headers. Drawing happens on a supersampled canvas
// that is downscaled with Catmull-Rom interpolation for smooth edges.
// Labels use the embedded Go Regular font.
//
//	var buf bytes.Buffer
//	err := png.Render(&buf, l, png.DefaultOptions())
package png

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/render/styles"
	"github.com/matzehuels/compgraph/pkg/render/svg"
)

// MaxPixels bounds the area of the supersampled drawing canvas.
const MaxPixels = 64 << 20

// Options configures PNG rendering.
type Options struct {
	// Scale multiplies the layout size (1.0 = one pixel per layout unit).
	Scale float64
	// Supersample is the oversampling factor used while drawing.
	Supersample int
	// Headers draws the column headers.
	Headers bool
}

// DefaultOptions returns 2x output with 3x supersampling.
func DefaultOptions() Options {
	return Options{Scale: 2, Supersample: 3, Headers: true}
}

var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorHeader = color.RGBA{84, 110, 122, 255} // #546e7a
)

type canvas struct {
	img   *image.RGBA
	scale float64 // layout unit → canvas pixel
	line  float64
	face  font.Face
}

// Render writes the PNG image of l to w.
func Render(w io.Writer, l graph.Layout, opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	width := int(math.Ceil(l.Width * opts.Scale))
	height := int(math.Ceil(l.Height * opts.Scale))
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "cannot rasterize a %vx%v canvas", l.Width, l.Height)
	}
	ss := float64(opts.Supersample)
	if width*height*opts.Supersample*opts.Supersample > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "image of %dx%d pixels at %dx supersampling exceeds the limit",
			width, height, opts.Supersample)
	}

	c, err := newCanvas(width*opts.Supersample, height*opts.Supersample, opts.Scale*ss)
	if err != nil {
		return err
	}
	c.fill(colorWhite)

	if opts.Headers {
		for _, name := range slices.Sorted(maps.Keys(l.ColX)) {
			c.text(l.ColX[name], svg.HeaderY, strings.ToUpper(name), colorHeader)
		}
	}
	c.edges(l)
	c.nodes(l.Nodes)

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), c.img, c.img.Bounds(), draw.Over, nil)
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func newCanvas(w, h int, scale float64) (*canvas, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    styles.FontSize * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		scale: scale,
		line:  1.5 * scale,
		face:  face,
	}, nil
}

func (c *canvas) fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// =============================================================================
// Edges
// =============================================================================

func (c *canvas) edges(l graph.Layout) {
	nodes := make(map[string]*graph.Node, len(l.Nodes))
	for i := range l.Nodes {
		if _, dup := nodes[l.Nodes[i].ID]; !dup {
			nodes[l.Nodes[i].ID] = &l.Nodes[i]
		}
	}
	for _, e := range l.Edges {
		x1, y1, x2, y2 := svg.Anchors(e, nodes)
		s := styles.EdgeStyleFor(e.Kind)
		col := parseHex(s.Stroke)
		curve := styles.NewCurve(x1, y1, x2, y2)
		c.curve(curve, col, parseDash(s.Dash))
		c.arrowhead(curve, col)
	}
}

// curve samples the Bézier curve and strokes it, honoring an on/off dash
// pattern given in layout units.
func (c *canvas) curve(cv styles.Curve, col color.Color, dash []float64) {
	const steps = 120
	px, py := cv.Point(0)
	travelled := 0.0
	for i := 1; i <= steps; i++ {
		x, y := cv.Point(float64(i) / steps)
		seg := math.Hypot(x-px, y-py)
		if dashOn(dash, travelled+seg/2) {
			c.line2(px, py, x, y, col)
		}
		travelled += seg
		px, py = x, y
	}
}

func dashOn(dash []float64, at float64) bool {
	if len(dash) == 0 {
		return true
	}
	period := 0.0
	for _, d := range dash {
		period += d
	}
	if period <= 0 {
		return true
	}
	pos := math.Mod(at, period)
	for i, d := range dash {
		if pos < d {
			return i%2 == 0
		}
		pos -= d
	}
	return true
}

func (c *canvas) arrowhead(cv styles.Curve, col color.Color) {
	// Tangent at t=1 points from the second control point to the end.
	tx, ty := cv.X2-cv.C2X, cv.Y2-cv.C2Y
	dist := math.Hypot(tx, ty)
	if dist < 1e-9 {
		return
	}
	nx, ny := tx/dist, ty/dist
	const length, width = 7.0, 3.5

	ex, ey := cv.X2, cv.Y2
	ax, ay := ex-nx*length+ny*width, ey-ny*length-nx*width
	bx, by := ex-nx*length-ny*width, ey-ny*length+nx*width
	for t := 0.0; t <= 1.0; t += 0.05 {
		c.line2(ex, ey, ax+(bx-ax)*t, ay+(by-ay)*t, col)
	}
}

// line2 strokes a segment given in layout units.
func (c *canvas) line2(x1, y1, x2, y2 float64, col color.Color) {
	x1, y1, x2, y2 = x1*c.scale, y1*c.scale, x2*c.scale, y2*c.scale
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	half := c.line / 2
	if dist < 1 {
		c.rect(x1-half, y1-half, x1+half, y1+half, col)
		return
	}
	perpX, perpY := -dy/dist, dx/dist
	for i := 0.0; i <= dist; i++ {
		t := i / dist
		cx, cy := x1+dx*t, y1+dy*t
		for off := -half; off <= half; off += 0.5 {
			c.img.Set(int(cx+perpX*off), int(cy+perpY*off), col)
		}
	}
}

// =============================================================================
// Nodes
// =============================================================================

func (c *canvas) nodes(nodes []graph.Node) {
	for _, n := range nodes {
		s := styles.NodeStyleFor(n.Kind)
		x0, y0 := n.Left()*c.scale, n.Top()*c.scale
		x1, y1 := n.Right()*c.scale, n.Bottom()*c.scale
		r := 6 * c.scale

		c.roundRect(x0, y0, x1, y1, r, parseHex(s.Stroke))
		c.roundRect(x0+c.line, y0+c.line, x1-c.line, y1-c.line, max(0, r-c.line), parseHex(s.Fill))
		c.text(n.X, n.Y, styles.TruncateLabel(n.DisplayLabel(), n.Width), parseHex(s.Text))
	}
}

// roundRect fills a rectangle with rounded corners, in canvas pixels.
func (c *canvas) roundRect(x0, y0, x1, y1, r float64, col color.Color) {
	for y := math.Floor(y0); y < y1; y++ {
		for x := math.Floor(x0); x < x1; x++ {
			if insideRounded(x+0.5, y+0.5, x0, y0, x1, y1, r) {
				c.img.Set(int(x), int(y), col)
			}
		}
	}
}

func insideRounded(px, py, x0, y0, x1, y1, r float64) bool {
	if px < x0 || px > x1 || py < y0 || py > y1 {
		return false
	}
	cx := math.Max(x0+r, math.Min(px, x1-r))
	cy := math.Max(y0+r, math.Min(py, y1-r))
	return math.Hypot(px-cx, py-cy) <= r
}

func (c *canvas) rect(x0, y0, x1, y1 float64, col color.Color) {
	for y := int(y0); y <= int(y1); y++ {
		for x := int(x0); x <= int(x1); x++ {
			c.img.Set(x, y, col)
		}
	}
}

// text draws s centered on (x,y), given in layout units.
func (c *canvas) text(x, y float64, s string, col color.Color) {
	width := font.MeasureString(c.face, s)
	ascent := c.face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x*c.scale*64) - width/2,
			Y: fixed.Int26_6(y*c.scale*64) + ascent*35/100,
		},
	}
	d.DrawString(s)
}

// =============================================================================
// Helpers
// =============================================================================

// parseHex parses "#rrggbb". Malformed input yields opaque black.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{0, 0, 0, 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// parseDash parses an SVG stroke-dasharray such as "6 4".
func parseDash(s string) []float64 {
	var out []float64
	for _, f := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if v, err := strconv.ParseFloat(f, 64); err == nil && v >= 0 {
			out = append(out, v)
		}
	}
	return out
}
