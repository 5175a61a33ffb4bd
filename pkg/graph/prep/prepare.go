package prep

import (
	"slices"

	"github.com/matzehuels/graphprep/pkg/graph"
)

// Result is everything a layout consumer needs from one input snapshot.
type Result struct {
	// Directed echoes the snapshot's directedness.
	Directed bool `json:"directed" yaml:"directed"`

	// Start is the explicit start node, or the one chosen by [ResolveStart].
	Start string `json:"start" yaml:"start"`

	// StartResolved is true when Start was chosen rather than supplied.
	StartResolved bool `json:"start_resolved" yaml:"start_resolved"`

	// Adjacency is built with the snapshot's directedness.
	Adjacency graph.AdjacencyMap `json:"adjacency" yaml:"adjacency"`

	// Components come from [Decompose], start component first.
	Components []graph.Component `json:"components" yaml:"components"`

	// Isolated lists nodes touched by no edge.
	Isolated []graph.Node `json:"isolated" yaml:"isolated"`

	// Edges is the edge list to draw: mirror-deduplicated for undirected
	// graphs, the links unchanged for directed ones.
	Edges []graph.Edge `json:"edges" yaml:"edges"`
}

// ComponentOf returns the index of the component holding id, or -1.
func (r *Result) ComponentOf(id string) int {
	for i, c := range r.Components {
		if c.Contains(id) {
			return i
		}
	}
	return -1
}

// Prepare runs the full preprocessing flow over g.
//
// The start node is g.StartNode when set; otherwise it is resolved from the
// adjacency built with g's directedness. Components are always computed on
// undirected connectivity. Prepare never modifies g.
func Prepare(g graph.Graph) Result {
	adj := graph.BuildAdjacency(g.Links, g.Directed)

	start, resolved := g.StartNode, false
	if start == "" {
		start, resolved = ResolveStart(g.Nodes, adj), true
	}

	edges := slices.Clone(g.Links)
	if !g.Directed {
		edges = DedupeEdges(g.Links)
	}
	if edges == nil {
		edges = []graph.Edge{}
	}

	return Result{
		Directed:      g.Directed,
		Start:         start,
		StartResolved: resolved,
		Adjacency:     adj,
		Components:    Decompose(g.Nodes, g.Links, start),
		Isolated:      IsolatedNodes(g.Nodes, g.Links),
		Edges:         edges,
	}
}
