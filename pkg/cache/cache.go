// Package cache provides key-value caching for prepared graphs and rendered
// artifacts.
//
// Preprocessing is linear in the graph size, but graphs fed by live front
// ends are re-submitted unchanged many times, and Graphviz rendering of large
// graphs is slow. The [Cache] interface lets the pipeline skip both.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for `graphprep serve` deployments
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes plus the options that change the
// output. [ScopedKeyer] adds a prefix for multi-tenant isolation.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry type.
const (
	TTLResult   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies a prepared result by the hash of its input graph.
	ResultKey(graphHash string) string

	// ArtifactKey identifies a rendered artifact by the hash of the prepared
	// result and the render options.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey returns "result:<graphHash>".
func (DefaultKeyer) ResultKey(graphHash string) string {
	return "result:" + graphHash
}

// ArtifactKey hashes the result hash together with the render options.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + artifactDigest(resultHash, opts)
}
