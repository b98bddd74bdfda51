// Package kv provides the durable key/value slot that user records are
// persisted in. Every backend stores opaque byte values under string keys
// and replaces a value in a single operation.
package kv

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("key not found")
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendBolt     = "bolt"
	BackendMemcache = "memcache"
)

// Backends lists every supported backend name
var Backends = []string{BackendMemory, BackendSQLite, BackendBolt, BackendMemcache}

// Store is a key/value medium
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Backend       string
	DatabasePath  string
	BoltPath      string
	MemcacheAddrs []string
	QuotaBytes    int64
}

// Open creates the Store named by opts.Backend
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(opts.QuotaBytes), nil
	case BackendSQLite:
		return OpenSQLite(opts.DatabasePath)
	case BackendBolt:
		return OpenBolt(opts.BoltPath)
	case BackendMemcache:
		return NewMemcacheStore(opts.MemcacheAddrs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// IsBackend reports whether name is a supported backend
func IsBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}
