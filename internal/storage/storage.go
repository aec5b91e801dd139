// Package storage provides the durable key/value primitive backing local
// note persistence.
//
// Everything above this package works in terms of opaque byte values under
// namespaced string keys. Four backends implement the same contract: a
// plain file per key (default), an embedded SQLite database, a bbolt
// database, and an in-memory map for tests and ephemeral runs.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
)

// errWriteDisabled is returned by stores that are simulating exhausted or
// disabled persistence.
var errWriteDisabled = errors.New("storage writes disabled")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Store is the minimal durable key/value contract.
//
// Read returns (nil, nil) when the key is absent; callers treat a missing
// key the same as empty content. Implementations must be safe for use from
// multiple goroutines.
type Store interface {
	// Read returns the value stored under key, or (nil, nil) if absent.
	Read(key string) ([]byte, error)

	// Write durably stores value under key, replacing any previous value.
	Write(key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Open creates a Store for the named backend rooted at dataDir.
//
// The caller must Close() the returned store when done.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "jot.db"))
	case BackendBolt:
		return OpenBolt(filepath.Join(dataDir, "jot.bolt"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
