package graph

import (
	"fmt"
	"strings"

	"github.com/matzehuels/compgraph/pkg/errors"
)

// ValidateOptions configures layout validation.
type ValidateOptions struct {
	// Strict turns every finding into an error. When false, Validate only
	// reports findings and returns a nil error.
	Strict bool
}

// Issue is a single validation finding.
type Issue struct {
	NodeID string
	EdgeID string
	Msg    string
}

func (i Issue) String() string {
	switch {
	case i.NodeID != "":
		return fmt.Sprintf("node %q: %s", i.NodeID, i.Msg)
	case i.EdgeID != "":
		return fmt.Sprintf("edge %q: %s", i.EdgeID, i.Msg)
	}
	return i.Msg
}

// Validate checks the structural assumptions the layout transformer relies on:
// unique node ids, edge endpoints that reference known nodes, and known kinds.
//
// The findings are always returned. In strict mode a non-empty finding list
// is also returned as an INVALID_LAYOUT error.
func Validate(l Layout, opts ValidateOptions) ([]Issue, error) {
	var issues []Issue

	seen := make(map[string]bool, len(l.Nodes))
	for i := range l.Nodes {
		n := &l.Nodes[i]
		if n.ID == "" {
			issues = append(issues, Issue{Msg: fmt.Sprintf("node at index %d has empty id", i)})
			continue
		}
		if seen[n.ID] {
			issues = append(issues, Issue{NodeID: n.ID, Msg: "duplicate id"})
		}
		seen[n.ID] = true
		if !n.Kind.Valid() {
			issues = append(issues, Issue{NodeID: n.ID, Msg: fmt.Sprintf("unknown kind %q", n.Kind)})
		}
	}

	for i := range l.Edges {
		e := &l.Edges[i]
		if e.Kind != "" && !e.Kind.Valid() {
			issues = append(issues, Issue{EdgeID: e.ID, Msg: fmt.Sprintf("unknown kind %q", e.Kind)})
		}
		for _, ep := range []Endpoint{e.From, e.To} {
			if ep.NodeID != "" && !seen[ep.NodeID] {
				issues = append(issues, Issue{EdgeID: e.ID, Msg: fmt.Sprintf("references unknown node %q", ep.NodeID)})
			}
		}
	}

	if opts.Strict && len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, is := range issues {
			msgs[i] = is.String()
		}
		return issues, errors.New(errors.ErrCodeInvalidLayout, "%d problem(s): %s", len(issues), strings.Join(msgs, "; "))
	}
	return issues, nil
}
