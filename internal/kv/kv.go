// Package kv provides the local persistence collaborators used to hold
// query history across process restarts. Implementations are simple
// key-value byte stores with no transactional guarantees; the history
// store is assumed to be the only writer (last write wins).
package kv

// Store is a minimal durable key-value byte store.
type Store interface {
	// Get returns the value for key, or ok=false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set durably stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases any underlying resources.
	Close() error
}

// Sizer is implemented by stores that can report their on-disk footprint.
type Sizer interface {
	Size() (int64, error)
}
