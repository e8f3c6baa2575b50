package store

import "context"

// KV is raw durable storage addressed by key, the equivalent of a
// browser's localStorage. Put must replace the value atomically: a reader
// sees either the old bytes or the new bytes.
type KV interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
