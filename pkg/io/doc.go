// Package io reads input graphs from JSON, YAML and TOML and writes
// preprocessing results as JSON or YAML.
//
// # Input Format
//
// All three encodings carry the same node-link snapshot:
//
//	{
//	  "nodes": [
//	    {"id": "a", "label": "Alpha", "x": 10, "y": 20},
//	    {"id": "b"}
//	  ],
//	  "links": [
//	    {"source": "a", "target": "b"}
//	  ],
//	  "directed": true,
//	  "start_node": "a"
//	}
//
// The YAML form uses the same keys. In TOML the scalar keys come first and the
// lists are arrays of tables:
//
//	directed = true
//
//	[[nodes]]
//	id = "a"
//
//	[[links]]
//	source = "a"
//	target = "b"
//
// Every node needs a non-empty id and every link needs both endpoints. Links
// may reference ids that are not in the node list; downstream preprocessing
// tolerates such dangling references.
//
// # Import
//
// Use [Import] to read a file, detecting the format from its extension, or
// [Read] to decode any io.Reader in an explicit [Format]:
//
//	g, err := io.Import("graph.yaml", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [Write] and [Export] encode a [prep.Result]. The adjacency map is written
// as an ordered object so repeated runs produce identical bytes.
//
// # Watching
//
// [Watch] calls back whenever an input file is rewritten, which drives
// `graphprep prepare --watch`.
//
// [prep.Result]: github.com/matzehuels/graphprep/pkg/graph/prep.Result
package io
