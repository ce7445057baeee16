package graph_test

import (
	"fmt"

	"github.com/matzehuels/compgraph/pkg/graph"
)

func ExampleValidate() {
	l := graph.Layout{
		Nodes: []graph.Node{
			{ID: "jsx:0", Kind: graph.KindJSX},
			{ID: "jsx:0", Kind: graph.KindJSX},
		},
		Edges: []graph.Edge{
			{ID: "e1", Kind: graph.EdgeFlow, From: graph.Endpoint{NodeID: "props"}, To: graph.Endpoint{NodeID: "jsx:0"}},
		},
	}

	issues, _ := graph.Validate(l, graph.ValidateOptions{})
	for _, is := range issues {
		fmt.Println(is)
	}
	// Output:
	// node "jsx:0": duplicate id
	// edge "e1": references unknown node "props"
}

func ExampleNode_ParentID() {
	n := graph.Node{
		ID:   "jsx:1",
		Kind: graph.KindJSX,
		Meta: map[string]any{graph.MetaParentID: "jsx:0"},
	}
	fmt.Println(n.ParentID())
	// Output: jsx:0
}
