package prep

import (
	"slices"

	"github.com/matzehuels/graphprep/pkg/graph"
)

// Decompose partitions the edge-connected nodes into components.
//
// Connectivity is always undirected, whatever the graph's declared
// directedness. Only ids that appear as an edge endpoint take part; nodes
// without edges are left to [IsolatedNodes]. Components are listed in order
// of discovery while walking endpoint ids in first-occurrence order, except
// that the component holding start (when start is non-empty and found) is
// moved to the front. Within a component nodes appear in depth-first
// preorder following adjacency order.
//
// Dangling endpoint ids connect nodes but are dropped from the output. A
// component made only of dangling ids is therefore omitted.
//
// The traversal uses an explicit stack, so long chains do not grow the
// goroutine stack.
func Decompose(nodes []graph.Node, edges []graph.Edge, start string) []graph.Component {
	if len(edges) == 0 {
		return []graph.Component{}
	}

	adj := graph.BuildAdjacency(edges, false)
	index := graph.NodeIndex(nodes)
	visited := make(map[string]struct{}, adj.Len())

	components := []graph.Component{}
	startAt := -1
	for _, id := range graph.EdgeNodeIDs(edges) {
		if _, ok := visited[id]; ok {
			continue
		}

		ids := traverse(adj, id, visited)

		comp := make(graph.Component, 0, len(ids))
		for _, cid := range ids {
			if n, ok := index[cid]; ok {
				comp = append(comp, n)
			}
		}
		if len(comp) == 0 {
			continue
		}
		if start != "" && startAt < 0 && slices.Contains(ids, start) {
			startAt = len(components)
		}
		components = append(components, comp)
	}

	if startAt > 0 {
		front := components[startAt]
		copy(components[1:startAt+1], components[:startAt])
		components[0] = front
	}
	return components
}

// traverse collects every id reachable from root in depth-first preorder,
// marking each as visited.
func traverse(adj graph.AdjacencyMap, root string, visited map[string]struct{}) []string {
	var out []string
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		out = append(out, id)

		ns := adj.Neighbors(id)
		for i := len(ns) - 1; i >= 0; i-- {
			if _, ok := visited[ns[i]]; !ok {
				stack = append(stack, ns[i])
			}
		}
	}
	return out
}
