package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphprep/pkg/cache"
	"github.com/matzehuels/graphprep/pkg/graph"
	"github.com/matzehuels/graphprep/pkg/graph/prep"
	"github.com/matzehuels/graphprep/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeResult   = "result"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
//
// Cache failures never fail a run: they are logged and the work is redone.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ResultTTL and ArtifactTTL control entry lifetimes.
	ResultTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		ResultTTL:   cache.TTLResult,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs prepare → render with caching.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Prepare
	prepareStart := time.Now()
	res, hash, hit, err := r.prepare(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result.Prepared = res
	result.GraphHash = hash
	result.Stats.PrepareTime = time.Since(prepareStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ComponentCount = len(res.Components)
	result.Stats.IsolatedCount = len(res.Isolated)
	result.CacheInfo.PrepareHit = hit

	opts.Logger.Info("prepared graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"components", result.Stats.ComponentCount,
		"start", res.Start,
		"cached", hit,
		"duration", result.Stats.PrepareTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PrepareWithCacheInfo preprocesses g with caching and returns cache hit info.
// The cache key is the hash of g's canonical encoding.
func (r *Runner) PrepareWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (prep.Result, bool, error) {
	res, _, hit, err := r.prepare(ctx, g, opts)
	return res, hit, err
}

// Prepare is a convenience wrapper that calls PrepareWithCacheInfo and discards the cache hit info.
func (r *Runner) Prepare(ctx context.Context, g graph.Graph, opts Options) (prep.Result, error) {
	res, _, err := r.PrepareWithCacheInfo(ctx, g, opts)
	return res, err
}

func (r *Runner) prepare(ctx context.Context, g graph.Graph, opts Options) (prep.Result, string, bool, error) {
	r.applyLogger(&opts)
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return prep.Result{}, "", false, err
	}
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.ResultKey(graphHash)
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, opts.Logger, cacheKey); ok {
			var cached prep.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, keyTypeResult)
				return cached, graphHash, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, keyTypeResult)
	}

	if err := ctx.Err(); err != nil {
		return prep.Result{}, "", false, err
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnPrepareStart(ctx, g.NodeCount(), g.EdgeCount())
	start := time.Now()
	res := prep.Prepare(g)
	pipelineHooks.OnPrepareComplete(ctx, len(res.Components), time.Since(start), nil)

	opts.Logger.Debug("computed preprocessing",
		"start", res.Start,
		"start_resolved", res.StartResolved,
		"isolated", len(res.Isolated),
		"edges", len(res.Edges))

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, opts.Logger, cacheKey, keyTypeResult, data, r.ResultTTL)
	}

	return res, graphHash, false, nil
}

// RenderWithCacheInfo produces artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res prep.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Compute cache key from result data
	resultData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(resultData)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			if data, ok := r.lookup(ctx, opts.Logger, key); ok {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, res, missing, opts.Detailed)
	pipelineHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts.Logger, key, keyTypeArtifact, data, r.ArtifactTTL)
		artifacts[format] = data
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res prep.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
