package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// AdjacencyMap maps a node id to its neighbor ids.
//
// Neighbor lists hold no duplicates and keep first-insertion order of the
// edge list they were built from. Keys also iterate in first-appearance order
// so that encoded output is stable, but callers should treat key order as
// incidental.
//
// The zero value is an empty map. An AdjacencyMap is never mutated after
// [BuildAdjacency] returns it, so it is safe for concurrent reads.
type AdjacencyMap struct {
	keys      []string
	neighbors map[string][]string
}

// BuildAdjacency converts an edge list into an adjacency map.
//
// Every edge records Target as a neighbor of Source. When directed is false
// the mirror Source-of-Target entry is recorded as well. Repeated edges (and,
// for undirected graphs, reversed repeats) never produce duplicate neighbors.
// Endpoint ids are not checked against any node set.
func BuildAdjacency(edges []Edge, directed bool) AdjacencyMap {
	b := newAdjacencyBuilder(len(edges))
	for _, e := range edges {
		b.add(e.Source, e.Target)
		if !directed {
			b.add(e.Target, e.Source)
		}
	}
	return b.build()
}

// Len returns the number of keys.
func (m AdjacencyMap) Len() int { return len(m.keys) }

// Keys returns the map keys in first-appearance order.
func (m AdjacencyMap) Keys() []string { return slices.Clone(m.keys) }

// HasKey reports whether id is a key of the map.
func (m AdjacencyMap) HasKey(id string) bool {
	_, ok := m.neighbors[id]
	return ok
}

// Neighbors returns a copy of the neighbor list of id, or nil if id is not a key.
func (m AdjacencyMap) Neighbors(id string) []string {
	return slices.Clone(m.neighbors[id])
}

// OutDegree returns the number of distinct neighbors of id.
func (m AdjacencyMap) OutDegree(id string) int { return len(m.neighbors[id]) }

// Contains reports whether to is recorded as a neighbor of from.
func (m AdjacencyMap) Contains(from, to string) bool {
	return slices.Contains(m.neighbors[from], to)
}

// All iterates over keys and their neighbor lists in key order.
// The yielded slices must not be modified.
func (m AdjacencyMap) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range m.keys {
			if !yield(k, m.neighbors[k]) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold the same keys with the same neighbor
// lists. Neighbor order is significant, key order is not.
func (m AdjacencyMap) Equal(other AdjacencyMap) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for k, ns := range m.neighbors {
		on, ok := other.neighbors[k]
		if !ok || !slices.Equal(ns, on) {
			return false
		}
	}
	return true
}

// =============================================================================
// Builder
// =============================================================================

// adjacencyBuilder accumulates neighbor lists with per-source dedup.
type adjacencyBuilder struct {
	keys      []string
	neighbors map[string][]string
	seen      map[Edge]struct{}
}

func newAdjacencyBuilder(hint int) *adjacencyBuilder {
	return &adjacencyBuilder{
		neighbors: make(map[string][]string, hint),
		seen:      make(map[Edge]struct{}, hint),
	}
}

func (b *adjacencyBuilder) key(id string) {
	if _, ok := b.neighbors[id]; ok {
		return
	}
	b.keys = append(b.keys, id)
	b.neighbors[id] = []string{}
}

func (b *adjacencyBuilder) add(from, to string) {
	b.key(from)
	e := Edge{Source: from, Target: to}
	if _, dup := b.seen[e]; dup {
		return
	}
	b.seen[e] = struct{}{}
	b.neighbors[from] = append(b.neighbors[from], to)
}

func (b *adjacencyBuilder) build() AdjacencyMap {
	return AdjacencyMap{keys: b.keys, neighbors: b.neighbors}
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalJSON encodes the map as a JSON object whose members follow key order.
func (m AdjacencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.neighbors[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object produced by MarshalJSON, keeping the
// member order of the document as key order.
func (m *AdjacencyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = AdjacencyMap{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("adjacency: expected object, got %v", tok)
	}

	b := newAdjacencyBuilder(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		k, ok := tok.(string)
		if !ok {
			return fmt.Errorf("adjacency: expected key, got %v", tok)
		}
		var ns []string
		if err := dec.Decode(&ns); err != nil {
			return fmt.Errorf("adjacency %s: %w", k, err)
		}
		b.key(k)
		for _, n := range ns {
			b.add(k, n)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = b.build()
	return nil
}

// MarshalYAML encodes the map as a YAML mapping whose entries follow key order.
func (m AdjacencyMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, n := range m.neighbors[k] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			seq,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping document order as key order.
func (m *AdjacencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("adjacency: expected mapping at line %d", value.Line)
	}
	b := newAdjacencyBuilder(len(value.Content) / 2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k := value.Content[i].Value
		var ns []string
		if err := value.Content[i+1].Decode(&ns); err != nil {
			return fmt.Errorf("adjacency %s: %w", k, err)
		}
		b.key(k)
		for _, n := range ns {
			b.add(k, n)
		}
	}
	*m = b.build()
	return nil
}
