// Package styles holds the presentation rules shared by the compgraph sinks.
//
// Nothing here affects layout. The package maps node and edge kinds to
// colors, dash patterns and arrowhead markers, builds the S-curve path
// every edge is drawn with, and fits labels into node boxes.
//
// # Edge Curves
//
// [CurvePath] connects two points with a cubic curve whose control points
// share the horizontal midpoint:
//
//	M x1 y1 C mx y1+o, mx y2-o, x2 y2
//
// The vertical offset o is half the vertical separation, clamped to
// ±[MaxCurveOffset], so long spans keep their bend and short spans do not
// overshoot. [CurveMidpoint] returns the point at t=0.5, where sinks place
// edge labels.
//
// # Kinds
//
//	styles.EdgeStyleFor(graph.EdgeStateMutation) // dashed orange, "arrow-state-mutation"
//	styles.NodeStyleFor(graph.KindJSX)           // blue fill and stroke
//
// Unknown kinds fall back to a neutral grey style.
package styles
