package providers

import "context"

// CacheProvider is the read-through cache used by the catalog adapters and
// the HTTP response cache. Values are opaque bytes; TTLs are in seconds.
type CacheProvider interface {
	// Get returns the cached value or an error on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
