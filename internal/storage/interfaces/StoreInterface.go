package interfaces

import "context"

// KeyValueStore is the host persistence contract: each Get and each Set is
// atomic on its own, and nothing spans two calls.
type KeyValueStore interface {
	// Get returns the stored values of the requested keys. Absent keys are
	// missing from the result rather than mapped to nil.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	// Set writes all items in one atomic step.
	Set(ctx context.Context, items map[string][]byte) error
	Close() error
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}
