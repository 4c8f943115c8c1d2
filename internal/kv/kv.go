// Package kv provides the durable key-value blob the todo store persists
// into. The whole collection lives under a single well-known key and is
// rewritten on every mutation, so the contract is deliberately small.
package kv

// Blob is a single-process key-value store for opaque byte blobs.
type Blob interface {
	// Get returns the value stored under key. The second result is false
	// when the key has never been written.
	Get(key string) ([]byte, bool, error)
	// Put overwrites the value stored under key.
	Put(key string, value []byte) error
}
