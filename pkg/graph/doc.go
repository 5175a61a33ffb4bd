// Package graph provides the data model of graphprep and the adjacency builder.
//
// # Core Types
//
//   - [Graph]: one input snapshot (nodes, links, directedness, optional start)
//   - [Node], [Edge]: vertices and links; identity is by node id
//   - [Component]: ordered node list of one connectivity class
//   - [AdjacencyMap]: id → deduplicated, insertion-ordered neighbor ids
//
// # Adjacency
//
// [BuildAdjacency] turns a flat edge list into an [AdjacencyMap]:
//
//	adj := graph.BuildAdjacency([]graph.Edge{{Source: "a", Target: "b"}}, false)
//	adj.Neighbors("a") // [b]
//	adj.Neighbors("b") // [a]
//
// Directed graphs record only Source → Target. Undirected graphs record both
// directions. Neighbor lists never repeat an id and keep the order in which
// the edge list first mentioned each neighbor.
//
// # Dangling References
//
// Edge endpoints do not have to exist in the node list. They become map keys
// or neighbors like any other id. Consumers that need Node values use
// [NodeIndex] and skip ids that are not found.
//
// # Serialization
//
// All types carry json, yaml and toml tags. [AdjacencyMap] encodes as an
// ordered JSON object or YAML mapping:
//
//	{"a": ["b"], "b": ["a"]}
//
// # Concurrency
//
// Every value in this package is immutable once built and safe for
// concurrent reads.
package graph
