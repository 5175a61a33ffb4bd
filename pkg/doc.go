// Package pkg provides the libraries behind graphprep.
//
// # Overview
//
// graphprep turns a node-link graph snapshot into the data a layout engine
// needs before it can place anything: neighbor lists, a start node,
// connected components in traversal order, isolated nodes, and an edge list
// without undirected duplicates. The pkg directory is organized as:
//
//  1. [graph] - Node, edge and adjacency types with JSON/YAML encoding
//  2. [graph/prep] - The preprocessing algorithms
//  3. [io] - Reading graphs (JSON, YAML, TOML) and writing results
//  4. [pipeline] - Orchestration with result and artifact caching
//  5. [render/nodelink] - DOT and SVG previews of prepared graphs
//  6. [cache], [observability], [errors], [buildinfo] - Infrastructure
//
// # Data Flow
//
//	graph file (JSON/YAML/TOML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [graph/prep] package (adjacency, start, components, edges)
//	         ↓
//	    [pipeline] package (cache lookup, render, cache store)
//	         ↓
//	    JSON/YAML/DOT/SVG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/graphprep/pkg/graph/prep"
//	    pkgio "github.com/matzehuels/graphprep/pkg/io"
//	)
//
//	g, err := pkgio.Import("graph.json", "")
//	if err != nil {
//	    return err
//	}
//	res := prep.Prepare(g)
//	fmt.Println(res.Start, len(res.Components))
//
// With caching and rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	out, err := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{"json", "svg"},
//	})
package pkg
