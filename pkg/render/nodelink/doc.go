// Package nodelink renders prepared graphs as node-link diagrams.
//
// # Overview
//
// A preview of what a layout front end will receive: every connected
// component is drawn as its own cluster, isolated nodes sit outside any
// cluster, and the start node is highlighted. Undirected graphs are drawn
// from the mirror-deduplicated edge list so each connection appears once.
//
// # Usage
//
// Convert a [prep.Result] to DOT, then render to SVG:
//
//	res := prep.Prepare(g)
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels also show the id, component index and out-degree
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. Directed results produce a digraph with "->" edges; undirected
// results produce a graph with "--" edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
//
// [prep.Result]: github.com/matzehuels/graphprep/pkg/graph/prep.Result
package nodelink
