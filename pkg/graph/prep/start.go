package prep

import (
	"slices"

	"github.com/matzehuels/graphprep/pkg/graph"
)

// ResolveStart picks a deterministic start node for a graph whose caller did
// not name one.
//
// Only ids present in nodes are considered; adjacency entries of dangling ids
// are ignored. The choice, in order of preference:
//
//  1. the smallest id that has outgoing edges but no incoming edge from
//     another node with outgoing edges (a source),
//  2. if no node has outgoing edges, the smallest id of all nodes,
//  3. otherwise the smallest id that has outgoing edges.
//
// Ids compare lexicographically, so the result depends only on the sets
// involved and never on input order. An empty node list yields "".
func ResolveStart(nodes []graph.Node, adj graph.AdjacencyMap) string {
	if len(nodes) == 0 {
		return ""
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	withOut := make(map[string]struct{})
	for id := range known {
		if adj.OutDegree(id) > 0 {
			withOut[id] = struct{}{}
		}
	}

	withIn := make(map[string]struct{})
	for id := range withOut {
		for _, n := range adj.Neighbors(id) {
			withIn[n] = struct{}{}
		}
	}

	var sources []string
	for id := range withOut {
		if _, ok := withIn[id]; !ok {
			sources = append(sources, id)
		}
	}
	if len(sources) > 0 {
		return slices.Min(sources)
	}

	if len(withOut) == 0 {
		return minKey(known)
	}
	return minKey(withOut)
}

func minKey(set map[string]struct{}) string {
	first := true
	var out string
	for id := range set {
		if first || id < out {
			out, first = id, false
		}
	}
	return out
}
