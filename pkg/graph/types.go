package graph

// =============================================================================
// Input Snapshot
// =============================================================================

// Graph is one input snapshot handed over by the parsing/UI layer.
//
// The format mirrors the node-link shape used by force-directed front ends:
//
//	{
//	  "nodes": [{"id": "a", "label": "A"}, {"id": "b"}],
//	  "links": [{"source": "a", "target": "b"}],
//	  "directed": true,
//	  "start_node": "a"
//	}
//
// Links may reference ids that are missing from Nodes. Such dangling
// references are tolerated everywhere in this module.
type Graph struct {
	Nodes     []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links     []Edge `json:"links" yaml:"links" toml:"links"`
	Directed  bool   `json:"directed,omitempty" yaml:"directed,omitempty" toml:"directed,omitempty"`
	StartNode string `json:"start_node,omitempty" yaml:"start_node,omitempty" toml:"start_node,omitempty"`
}

// NodeCount returns the number of nodes in the snapshot.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of links in the snapshot, repeats included.
func (g Graph) EdgeCount() int { return len(g.Links) }

// =============================================================================
// Node
// =============================================================================

// Node is a vertex of the input graph. Identity is by ID; Label and the
// optional coordinates are payload carried through untouched.
type Node struct {
	ID    string   `json:"id" yaml:"id" toml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	X     *float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Y     *float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasPosition reports whether both coordinates are set.
func (n Node) HasPosition() bool { return n.X != nil && n.Y != nil }

// =============================================================================
// Edge
// =============================================================================

// Edge connects two node ids. For directed graphs it means Source → Target;
// for undirected graphs the direction only matters to [prep.DedupeEdges].
type Edge struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

// Reverse returns the mirrored edge.
func (e Edge) Reverse() Edge { return Edge{Source: e.Target, Target: e.Source} }

// IsSelfLoop reports whether both endpoints are the same id.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }

// =============================================================================
// Component
// =============================================================================

// Component is the ordered node list of one undirected connectivity class of
// the edge set. Nodes touched by no edge never belong to a component.
type Component []Node

// IDs returns the node ids of the component in order.
func (c Component) IDs() []string {
	ids := make([]string, len(c))
	for i, n := range c {
		ids[i] = n.ID
	}
	return ids
}

// Contains reports whether a node with the given id is part of the component.
func (c Component) Contains(id string) bool {
	for _, n := range c {
		if n.ID == id {
			return true
		}
	}
	return false
}
