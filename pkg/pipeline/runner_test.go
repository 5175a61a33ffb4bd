package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphprep/pkg/cache"
	"github.com/matzehuels/graphprep/pkg/graph"
	"github.com/matzehuels/graphprep/pkg/observability"
)

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// brokenCache fails every operation.
type brokenCache struct{}

var errBroken = errors.New("backend down")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error)           { return nil, false, errBroken }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errBroken }
func (brokenCache) Delete(context.Context, string) error                      { return errBroken }
func (brokenCache) Close() error                                              { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"}},
		Links: []graph.Edge{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "A"},
			{Source: "C", Target: "D"},
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatalf("NewRunner left nil fields: %+v", r)
	}
	if r.ResultTTL != cache.TTLResult || r.ArtifactTTL != cache.TTLArtifact {
		t.Errorf("TTLs = %v/%v", r.ResultTTL, r.ArtifactTTL)
	}
}

func TestRunnerPrepareCacheHit(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	first, hit, err := r.PrepareWithCacheInfo(ctx, sampleGraph(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first call should miss")
	}

	second, hit, err := r.PrepareWithCacheInfo(ctx, sampleGraph(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second identical call should hit")
	}
	if mustJSON(t, first) != mustJSON(t, second) {
		t.Errorf("cached result differs:\n%s\n%s", mustJSON(t, first), mustJSON(t, second))
	}
	if !first.Adjacency.Equal(second.Adjacency) {
		t.Error("cached adjacency differs")
	}
	if !reflect.DeepEqual(first.Components, second.Components) {
		t.Errorf("cached components differ: %v vs %v", first.Components, second.Components)
	}
}

func TestRunnerPrepareDifferentGraphsMiss(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())

	if _, err := r.Prepare(ctx, sampleGraph(), Options{}); err != nil {
		t.Fatal(err)
	}
	g := sampleGraph()
	g.Directed = true
	_, hit, err := r.PrepareWithCacheInfo(ctx, g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("directedness must be part of the cache key")
	}
}

func TestRunnerPrepareRefresh(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	if _, err := r.Prepare(ctx, sampleGraph(), Options{}); err != nil {
		t.Fatal(err)
	}
	gets := c.gets
	_, hit, err := r.PrepareWithCacheInfo(ctx, sampleGraph(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("refresh should bypass the cache")
	}
	if c.gets != gets {
		t.Error("refresh should not read the cache")
	}
}

func TestRunnerCorruptEntryRecomputes(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	data, _ := graph.MarshalGraph(sampleGraph())
	c.data[r.Keyer.ResultKey(cache.Hash(data))] = []byte("not json")

	res, hit, err := r.PrepareWithCacheInfo(ctx, sampleGraph(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("corrupt entry should count as a miss")
	}
	if res.Start != "A" {
		t.Errorf("Start = %q, want A", res.Start)
	}
}

func TestRunnerBrokenCacheDegrades(t *testing.T) {
	r := NewRunner(brokenCache{}, nil, quietLogger())
	result, err := r.Execute(context.Background(), sampleGraph(), Options{Formats: []string{"json", "dot"}})
	if err != nil {
		t.Fatalf("cache failures must not fail the run: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(result.Artifacts))
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	result, err := r.Execute(ctx, sampleGraph(), Options{Formats: []string{"json", "yaml", "dot"}})
	if err != nil {
		t.Fatal(err)
	}

	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Stats.NodeCount != 5 || result.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.Stats.ComponentCount != 2 || result.Stats.IsolatedCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.CacheInfo.PrepareHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", result.CacheInfo)
	}

	var decoded map[string]any
	if err := json.Unmarshal(result.Artifacts["json"], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded["start"] != "A" {
		t.Errorf("json start = %v", decoded["start"])
	}
	if !strings.Contains(string(result.Artifacts["yaml"]), "start: A") {
		t.Errorf("yaml artifact:\n%s", result.Artifacts["yaml"])
	}
	if !strings.HasPrefix(string(result.Artifacts["dot"]), "graph G {") {
		t.Errorf("dot artifact:\n%s", result.Artifacts["dot"])
	}

	again, err := r.Execute(ctx, sampleGraph(), Options{Formats: []string{"json", "yaml", "dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.PrepareHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	for f, data := range result.Artifacts {
		if string(again.Artifacts[f]) != string(data) {
			t.Errorf("%s artifact differs on cache hit", f)
		}
	}
}

func TestRunnerRenderPartialHit(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())

	res, err := r.Prepare(ctx, sampleGraph(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(ctx, res, Options{Formats: []string{"dot"}}); err != nil {
		t.Fatal(err)
	}

	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, Options{Formats: []string{"dot", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("json was never rendered, so the run is not a full hit")
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %v", artifacts)
	}
}

func TestRunnerDetailedKeyedSeparately(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())
	res, _ := r.Prepare(ctx, sampleGraph(), Options{})

	plain, err := r.Render(ctx, res, Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	detailed, hit, err := r.RenderWithCacheInfo(ctx, res, Options{Formats: []string{"dot"}, Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("detailed render should not reuse the plain artifact")
	}
	if string(plain["dot"]) == string(detailed["dot"]) {
		t.Error("detailed DOT should differ")
	}
}

func TestRunnerExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), sampleGraph(), Options{Formats: []string{"bmp"}}); err == nil {
		t.Error("expected error")
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(ctx, sampleGraph(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu       sync.Mutex
	prepares int
	renders  int
	hits     map[string]int
	misses   map[string]int
}

func (h *recordingHooks) OnPrepareComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prepares++
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[keyType]++
}

func TestRunnerHooks(t *testing.T) {
	defer observability.Reset()
	h := &recordingHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)

	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())
	opts := Options{Formats: []string{"json"}}
	for range 2 {
		if _, err := r.Execute(ctx, sampleGraph(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if h.prepares != 1 || h.renders != 1 {
		t.Errorf("prepares=%d renders=%d, want 1 each", h.prepares, h.renders)
	}
	if h.misses["result"] != 1 || h.hits["result"] != 1 {
		t.Errorf("result hits=%d misses=%d", h.hits["result"], h.misses["result"])
	}
	if h.misses["artifact"] != 1 || h.hits["artifact"] != 1 {
		t.Errorf("artifact hits=%d misses=%d", h.hits["artifact"], h.misses["artifact"])
	}
}

func TestRunnerFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	if _, err := r.Execute(ctx, sampleGraph(), Options{}); err != nil {
		t.Fatal(err)
	}
	result, err := r.Execute(ctx, sampleGraph(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheInfo.PrepareHit {
		t.Error("file cache should serve the second run")
	}
}
