package styles

import (
	"fmt"
	"strconv"
)

// MaxCurveOffset bounds the vertical control-point offset of an edge curve.
const MaxCurveOffset = 80.0

// Curve is a cubic Bézier segment.
type Curve struct {
	X1, Y1   float64 // start
	C1X, C1Y float64 // first control point
	C2X, C2Y float64 // second control point
	X2, Y2   float64 // end
}

// NewCurve returns the S-curve from (x1,y1) to (x2,y2).
func NewCurve(x1, y1, x2, y2 float64) Curve {
	mx := (x1 + x2) / 2
	o := max(-MaxCurveOffset, min(MaxCurveOffset, (y2-y1)/2))
	return Curve{
		X1: x1, Y1: y1,
		C1X: mx, C1Y: y1 + o,
		C2X: mx, C2Y: y2 - o,
		X2: x2, Y2: y2,
	}
}

// Point evaluates the curve at t in [0,1].
func (c Curve) Point(t float64) (float64, float64) {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return a*c.X1 + b*c.C1X + cc*c.C2X + d*c.X2,
		a*c.Y1 + b*c.C1Y + cc*c.C2Y + d*c.Y2
}

// Path returns the SVG path data of the curve.
func (c Curve) Path() string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(c.X1), num(c.Y1), num(c.C1X), num(c.C1Y), num(c.C2X), num(c.C2Y), num(c.X2), num(c.Y2))
}

// CurvePath returns the SVG path data of the S-curve from (x1,y1) to (x2,y2).
func CurvePath(x1, y1, x2, y2 float64) string {
	return NewCurve(x1, y1, x2, y2).Path()
}

// CurveMidpoint returns the point halfway along the S-curve.
func CurveMidpoint(x1, y1, x2, y2 float64) (float64, float64) {
	return NewCurve(x1, y1, x2, y2).Point(0.5)
}

// num formats a coordinate without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
