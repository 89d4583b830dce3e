// Package store provides durable local key-value storage backends.
//
// The surface mirrors a browser's localStorage: string keys, string values,
// a whole value is replaced on every write.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrClosed is returned by operations on a closed Storage.
var ErrClosed = errors.New("store: closed")

// Storage is a local key-value store.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(key string) (value string, ok bool, err error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	fileName   = "storage.json"
	sqliteName = "storage.sqlite"
)

// Open returns the backend named by backend, rooted at dir.
func Open(backend, dir string) (Storage, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(filepath.Join(dir, fileName))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, sqliteName))
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
