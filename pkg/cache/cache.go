// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: document store with a TTL index on expires_at
//   - [NullCache]: disables caching
//
// [Open] selects a backend from [Options].
//
// # Keys
//
// Keys are content addressed. A [Keyer] derives them from the hash of the
// input (mapping result or layout) plus the options that influence the
// output, so identical requests hit the same entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(mappingJSON), cache.LayoutKeyOpts{DepthGap: 160})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
