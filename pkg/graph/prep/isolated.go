package prep

import "github.com/matzehuels/graphprep/pkg/graph"

// IsolatedNodes returns the nodes no edge touches, in node-list order.
// These are exactly the nodes [Decompose] leaves out.
func IsolatedNodes(nodes []graph.Node, edges []graph.Edge) []graph.Node {
	touched := make(map[string]struct{}, 2*len(edges))
	for _, e := range edges {
		touched[e.Source] = struct{}{}
		touched[e.Target] = struct{}{}
	}
	out := []graph.Node{}
	for _, n := range nodes {
		if _, ok := touched[n.ID]; !ok {
			out = append(out, n)
		}
	}
	return out
}
