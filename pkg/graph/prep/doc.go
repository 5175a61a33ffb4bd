// Package prep derives the structures a layout algorithm needs from a raw
// node-link graph.
//
// # Overview
//
// Layout placement (force-directed, tree, radial, arc) wants more than a bag
// of nodes and links. Before placing anything it needs to know where to
// start, which nodes belong together, and which edges to actually draw. This
// package answers those questions and nothing else: it computes no
// coordinates and renders nothing.
//
// # Operations
//
//   - [ResolveStart]: deterministic start node when the caller gave none
//   - [Decompose]: connected components, start component first
//   - [DedupeEdges]: drop mirrored copies of undirected edges
//   - [IsolatedNodes]: nodes no edge touches
//   - [Prepare]: all of the above in the order the data flows
//
// Adjacency itself comes from [graph.BuildAdjacency].
//
// # Start Node Policy
//
// Sources (nodes with outgoing but no incoming edges) are preferred. Cycles
// fall back to the smallest id with outgoing edges, and edgeless graphs to
// the smallest id overall. All comparisons are plain string comparisons,
// which makes the choice independent of input order.
//
// # Mirror Dedup
//
// [DedupeEdges] removes b→a when a→b was already emitted, but keeps a second
// a→b. Renderers depend on this exact output, so repeats in the same
// direction are passed through on purpose.
//
// # Failure Modes
//
// There are none. Every function is total: empty inputs give empty outputs,
// dangling endpoints are tolerated, and self-loops or cycles terminate.
//
// # Concurrency
//
// All functions are pure and never modify their inputs, so concurrent calls
// are safe as long as callers do not mutate the slices they pass in.
package prep
