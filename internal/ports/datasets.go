package ports

import (
	"context"
	"time"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
)

// DatasetFetcher fetches one dataset's records from its remote endpoint and
// normalizes the response to a plain record slice.
type DatasetFetcher interface {
	Fetch(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error)
}

// CacheRepository is a byte-oriented cache with TTL semantics, used to keep
// fetched datasets warm across mode switches and restarts.
type CacheRepository interface {
	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns nil when the key doesn't exist
	// or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Returns true if the key was deleted.
	Delete(ctx context.Context, key string) (bool, error)
}
