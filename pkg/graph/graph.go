package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a snapshot to compact JSON bytes.
// Node and link order is preserved, so two snapshots that differ only in
// order produce different bytes; this is what cache keys need because the
// preprocessing output depends on that order.
func MarshalGraph(g Graph) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("decode graph: %w", err)
	}
	return g, nil
}

// NodeIndex maps node ids to their Node. When ids repeat, the first
// occurrence wins.
func NodeIndex(nodes []Node) map[string]Node {
	idx := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = n
		}
	}
	return idx
}

// EdgeNodeIDs returns every id used as an edge endpoint, in order of first
// occurrence (source before target within an edge).
func EdgeNodeIDs(edges []Edge) []string {
	seen := make(map[string]struct{}, len(edges))
	var ids []string
	for _, e := range edges {
		for _, id := range [2]string{e.Source, e.Target} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
