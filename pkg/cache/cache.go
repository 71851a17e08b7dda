// Package cache stores pipeline results keyed by content hashes.
//
// # Overview
//
// A layout pass is cheap for a single family but a chart service renders
// the same family many times. The pipeline caches the laid-out dataset, the
// projected chart and rendered artifacts under keys derived from the input
// bytes and the options that shaped them, so an unchanged family is never
// laid out twice.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes its inputs, so keys are
// fixed-length and safe as file names. [ScopedKeyer] prefixes another
// keyer's keys to separate namespaces that share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// failed, not that the key is absent. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long pipeline results stay cached unless configured
// otherwise.
const DefaultTTL = 24 * time.Hour
