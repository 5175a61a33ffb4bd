package prep

import "github.com/matzehuels/graphprep/pkg/graph"

// DedupeEdges drops the mirrored copies of undirected edges.
//
// Edges are processed in order. An edge is dropped when its reverse was
// already emitted; otherwise it is emitted and remembered. An exact repeat in
// the same direction is kept: only mirrors are removed. Self-loops are their
// own reverse, so a second a→a is dropped.
//
// The result is safe to feed back in: DedupeEdges(DedupeEdges(x)) equals
// DedupeEdges(x).
func DedupeEdges(edges []graph.Edge) []graph.Edge {
	seen := make(map[graph.Edge]struct{}, len(edges))
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if _, mirrored := seen[e.Reverse()]; mirrored {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
