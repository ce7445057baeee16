// Package graph defines the positioned component graph shared by every stage
// of compgraph.
//
// A [Layout] is the aggregate handed from the base graph builder to the tree
// layout transformer and from there to the renderers:
//
//   - [Node]: a box with a kind, a label, a center position and a fixed size
//   - [Edge]: a directed connection whose endpoints cache coordinates
//   - ColX: column name → anchor x-coordinate
//   - Width, Height: canvas bounding box
//
// # Node Kinds
//
//	graph.KindIndependent  // props, context values, refs
//	graph.KindState        // useState / useReducer values
//	graph.KindVariable     // derived helper variables
//	graph.KindEffect       // side-effect hooks
//	graph.KindJSX          // elements of the returned tree
//	graph.KindExternal     // imported functions and modules
//
// JSX nodes reference their parent element through the "parentId" meta key
// (see [Node.ParentID]). Parent references form a forest.
//
// # Serialization
//
// Layouts use a camelCase JSON format:
//
//	{
//	  "nodes": [{"id": "jsx:0", "kind": "jsx", "label": "<div>", "x": 920, "y": 80,
//	             "width": 140, "height": 28}],
//	  "edges": [],
//	  "colX": {"jsx": 920},
//	  "width": 1280,
//	  "height": 160
//	}
//
// Common operations:
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	graph.WriteLayoutFile(l, "out.json")
//	data, _ := graph.MarshalLayout(l)
//
// # Concurrency
//
// Layout values are treated as immutable once built. Use [Layout.Clone]
// before modifying a layout that another goroutine may read.
package graph
