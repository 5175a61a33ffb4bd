package graph

import (
	"encoding/json"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func edges(pairs ...string) []Edge {
	out := make([]Edge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Edge{Source: pairs[i], Target: pairs[i+1]})
	}
	return out
}

func TestBuildAdjacency(t *testing.T) {
	tests := []struct {
		name     string
		edges    []Edge
		directed bool
		want     map[string][]string
		keys     []string
	}{
		{
			name:     "Empty",
			edges:    nil,
			directed: true,
			want:     map[string][]string{},
		},
		{
			name:     "DirectedChain",
			edges:    edges("a", "b", "b", "c"),
			directed: true,
			want:     map[string][]string{"a": {"b"}, "b": {"c"}},
			keys:     []string{"a", "b"},
		},
		{
			name:     "UndirectedChain",
			edges:    edges("a", "b", "b", "c"),
			directed: false,
			want:     map[string][]string{"a": {"b"}, "b": {"a", "c"}, "c": {"b"}},
			keys:     []string{"a", "b", "c"},
		},
		{
			name:     "DirectedRepeats",
			edges:    edges("a", "b", "a", "b", "a", "c", "a", "b"),
			directed: true,
			want:     map[string][]string{"a": {"b", "c"}},
			keys:     []string{"a"},
		},
		{
			name:     "UndirectedMirror",
			edges:    edges("a", "b", "b", "a"),
			directed: false,
			want:     map[string][]string{"a": {"b"}, "b": {"a"}},
			keys:     []string{"a", "b"},
		},
		{
			name:     "InsertionOrderNotSorted",
			edges:    edges("m", "z", "m", "a", "m", "k"),
			directed: true,
			want:     map[string][]string{"m": {"z", "a", "k"}},
			keys:     []string{"m"},
		},
		{
			name:     "SelfLoopUndirected",
			edges:    edges("a", "a"),
			directed: false,
			want:     map[string][]string{"a": {"a"}},
			keys:     []string{"a"},
		},
		{
			name:     "DanglingEndpoints",
			edges:    edges("ghost", "a"),
			directed: true,
			want:     map[string][]string{"ghost": {"a"}},
			keys:     []string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := BuildAdjacency(tt.edges, tt.directed)
			if adj.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", adj.Len(), len(tt.want))
			}
			for k, want := range tt.want {
				if got := adj.Neighbors(k); !slices.Equal(got, want) {
					t.Errorf("Neighbors(%q) = %v, want %v", k, got, want)
				}
			}
			if tt.keys != nil && !slices.Equal(adj.Keys(), tt.keys) {
				t.Errorf("Keys() = %v, want %v", adj.Keys(), tt.keys)
			}
		})
	}
}

func TestBuildAdjacencyDirectedProperty(t *testing.T) {
	es := edges("a", "b", "b", "c", "c", "a", "a", "d", "d", "d")
	adj := BuildAdjacency(es, true)

	has := make(map[Edge]bool)
	for _, e := range es {
		has[e] = true
	}
	ids := []string{"a", "b", "c", "d"}
	for _, a := range ids {
		for _, b := range ids {
			if got, want := adj.Contains(a, b), has[Edge{Source: a, Target: b}]; got != want {
				t.Errorf("Contains(%q, %q) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestBuildAdjacencyUndirectedSymmetry(t *testing.T) {
	es := edges("a", "b", "b", "c", "c", "a", "x", "y", "y", "x", "q", "q")
	adj := BuildAdjacency(es, false)

	for k, ns := range adj.All() {
		for _, n := range ns {
			if !adj.Contains(n, k) {
				t.Errorf("Contains(%q, %q) = false but %q → %q exists", n, k, k, n)
			}
		}
	}
	for _, e := range es {
		if !adj.Contains(e.Source, e.Target) || !adj.Contains(e.Target, e.Source) {
			t.Errorf("edge %s-%s not recorded in both directions", e.Source, e.Target)
		}
	}
}

func TestAdjacencyMapZeroValue(t *testing.T) {
	var adj AdjacencyMap
	if adj.Len() != 0 {
		t.Errorf("Len() = %d, want 0", adj.Len())
	}
	if adj.HasKey("a") {
		t.Error("HasKey on zero value should be false")
	}
	if adj.Neighbors("a") != nil {
		t.Error("Neighbors on zero value should be nil")
	}
	data, err := json.Marshal(adj)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal = %s, want {}", data)
	}
}

func TestAdjacencyNeighborsIsCopy(t *testing.T) {
	adj := BuildAdjacency(edges("a", "b"), true)
	ns := adj.Neighbors("a")
	ns[0] = "mutated"
	if got := adj.Neighbors("a"); got[0] != "b" {
		t.Errorf("Neighbors leaked internal slice: %v", got)
	}
}

func TestAdjacencyJSONRoundTrip(t *testing.T) {
	adj := BuildAdjacency(edges("z", "y", "a", "b", "z", "a"), false)

	data, err := json.Marshal(adj)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"z":["y","a"],"y":["z"],"a":["b","z"],"b":["a"]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back AdjacencyMap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(adj) {
		t.Error("round trip changed adjacency")
	}
	if !slices.Equal(back.Keys(), adj.Keys()) {
		t.Errorf("Keys() = %v, want %v", back.Keys(), adj.Keys())
	}
}

func TestAdjacencyUnmarshalJSONErrors(t *testing.T) {
	for _, in := range []string{`[]`, `{"a": "b"}`, `{"a": [1]}`} {
		var m AdjacencyMap
		if err := json.Unmarshal([]byte(in), &m); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestAdjacencyYAMLRoundTrip(t *testing.T) {
	adj := BuildAdjacency(edges("c", "b", "c", "a"), true)

	data, err := yaml.Marshal(adj)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back AdjacencyMap
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(adj) {
		t.Errorf("round trip changed adjacency:\n%s", data)
	}
	if got := back.Neighbors("c"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Neighbors(c) = %v, want [b a]", got)
	}
}

func TestAdjacencyEqual(t *testing.T) {
	a := BuildAdjacency(edges("a", "b", "c", "d"), true)
	b := BuildAdjacency(edges("c", "d", "a", "b"), true)
	if !a.Equal(b) {
		t.Error("key order should not matter")
	}
	c := BuildAdjacency(edges("a", "b", "a", "c"), true)
	d := BuildAdjacency(edges("a", "c", "a", "b"), true)
	if c.Equal(d) {
		t.Error("neighbor order should matter")
	}
}

func TestMarshalGraph(t *testing.T) {
	x, y := 1.5, 2.0
	g := Graph{
		Nodes:     []Node{{ID: "a", Label: "A", X: &x, Y: &y}, {ID: "b"}},
		Links:     edges("a", "b"),
		Directed:  true,
		StartNode: "a",
	}
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	back, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if back.StartNode != "a" || !back.Directed || back.NodeCount() != 2 || back.EdgeCount() != 1 {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if !back.Nodes[0].HasPosition() || *back.Nodes[0].X != 1.5 {
		t.Errorf("coordinates lost: %+v", back.Nodes[0])
	}
	if back.Nodes[1].HasPosition() {
		t.Error("node b should have no position")
	}
}

func TestUnmarshalGraphInvalid(t *testing.T) {
	if _, err := UnmarshalGraph([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestNodeIndexFirstWins(t *testing.T) {
	idx := NodeIndex([]Node{{ID: "a", Label: "first"}, {ID: "a", Label: "second"}})
	if idx["a"].Label != "first" {
		t.Errorf("NodeIndex kept %q, want first", idx["a"].Label)
	}
}

func TestEdgeNodeIDs(t *testing.T) {
	got := EdgeNodeIDs(edges("b", "a", "a", "c", "d", "d"))
	want := []string{"b", "a", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("EdgeNodeIDs = %v, want %v", got, want)
	}
}

func TestNodeDisplayLabel(t *testing.T) {
	if got := (Node{ID: "x"}).DisplayLabel(); got != "x" {
		t.Errorf("DisplayLabel = %q, want x", got)
	}
	if got := (Node{ID: "x", Label: "X"}).DisplayLabel(); got != "X" {
		t.Errorf("DisplayLabel = %q, want X", got)
	}
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{Source: "a", Target: "b"}
	if r := e.Reverse(); r.Source != "b" || r.Target != "a" {
		t.Errorf("Reverse = %+v", r)
	}
	if e.IsSelfLoop() {
		t.Error("a→b is not a self-loop")
	}
	if !(Edge{Source: "a", Target: "a"}).IsSelfLoop() {
		t.Error("a→a is a self-loop")
	}
}

func TestComponentHelpers(t *testing.T) {
	c := Component{{ID: "a"}, {ID: "b"}}
	if !slices.Equal(c.IDs(), []string{"a", "b"}) {
		t.Errorf("IDs = %v", c.IDs())
	}
	if !c.Contains("b") || c.Contains("z") {
		t.Error("Contains mismatch")
	}
}
