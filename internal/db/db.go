// Package db defines the cache store contract. Only plain key-value access is
// needed: entries are opaque JSON blobs with a TTL.
package db

import (
	"context"
	"time"
)

// Store is the cache store used by the composition root.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore reads and writes expiring values.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithTTL stores value; a non-positive ttl stores without expiry.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
